// Package user persists account credentials in a local SQLite database.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/siftlabs/docsift/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    username        TEXT UNIQUE NOT NULL,
    email           TEXT UNIQUE NOT NULL,
    full_name       TEXT,
    hashed_password TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    is_active       INTEGER NOT NULL DEFAULT 1
);`

// Store is a SQLite-backed user repository.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the user database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating users table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new account with an already-hashed password. Returns
// domain.ErrUserExists when the username or email is taken.
func (s *Store) Create(ctx context.Context, reg domain.Registration, hashedPassword string) (*domain.User, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? OR email = ?`,
		reg.Username, reg.Email,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	createdAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, full_name, hashed_password, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		reg.Username, reg.Email, reg.FullName, hashedPassword, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted id: %w", err)
	}

	return &domain.User{
		ID:             id,
		Username:       reg.Username,
		Email:          reg.Email,
		FullName:       reg.FullName,
		HashedPassword: hashedPassword,
		CreatedAt:      createdAt,
		IsActive:       true,
	}, nil
}

// GetByUsername fetches an account. Returns domain.ErrUserNotFound when no
// row matches.
func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, full_name, hashed_password, created_at, is_active
		 FROM users WHERE username = ?`,
		username,
	)

	var (
		u         domain.User
		fullName  sql.NullString
		createdAt string
		isActive  int
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &fullName, &u.HashedPassword, &createdAt, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading user %s: %w", username, err)
	}

	u.FullName = fullName.String
	u.IsActive = isActive != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

// Deactivate marks the account inactive. Returns false when the username is
// unknown.
func (s *Store) Deactivate(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = 0 WHERE username = ?`, username,
	)
	if err != nil {
		return false, fmt.Errorf("deactivating user %s: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}
