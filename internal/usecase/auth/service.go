// Package auth issues and verifies bearer tokens and manages accounts. A
// verified identity is an opaque principal used for logging only; it never
// drives authorization decisions in the core.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/siftlabs/docsift/internal/domain"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Service handles registration, login, and token verification.
type Service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an auth service signing tokens with secret.
func New(users UserStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a new account. Field violations are collected and
// returned together as a *domain.ValidationError.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if violations := validateRegistration(reg); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, reg, string(hashed))
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered user", zap.String("username", user.Username))
	return user, nil
}

// Login checks credentials and returns a signed bearer token. Every failure
// mode collapses into ErrUnauthorized so callers cannot probe which part was
// wrong.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return "", domain.ErrUnauthorized
	}
	if !user.IsActive {
		return "", domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", domain.ErrUnauthorized
	}

	token, err := s.issueToken(user.Username)
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		return "", domain.ErrUnauthorized
	}

	s.logger.Info("user logged in", zap.String("username", username))
	return token, nil
}

// VerifyToken validates a bearer token and resolves it to an active account.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Deactivate disables an account.
func (s *Service) Deactivate(ctx context.Context, username string) (bool, error) {
	return s.users.Deactivate(ctx, username)
}

func (s *Service) issueToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func validateRegistration(reg domain.Registration) []string {
	var violations []string
	if len(reg.Username) < 3 || len(reg.Username) > 50 {
		violations = append(violations, "username must be 3-50 characters")
	}
	if !emailRegex.MatchString(reg.Email) {
		violations = append(violations, "email is not valid")
	}
	if len(reg.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	return violations
}
