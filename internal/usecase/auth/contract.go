package auth

import (
	"context"

	"github.com/siftlabs/docsift/internal/domain"
)

// UserStore is the credential storage contract.
type UserStore interface {
	Create(ctx context.Context, reg domain.Registration, hashedPassword string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Deactivate(ctx context.Context, username string) (bool, error)
}
