package ports

import (
	"context"
	"time"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// Names of the integrity constraints the user store enforces.
const (
	ConstraintUserEmail    = "uniq_users_email"
	ConstraintUserUsername = "uniq_users_username"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Email or username collisions are reported as
	// *domain.ConstraintError naming the violated constraint.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Delete removes the user and every rating they authored.
	Delete(ctx context.Context, id string) error
}

// TokenDenylist records refresh tokens that were explicitly revoked.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
