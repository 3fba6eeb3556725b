package ports

import (
	"context"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// RegisterInput carries the registration form. Username is optional.
type RegisterInput struct {
	Email     string
	Username  *string
	Password  string
	Password2 string
}

// TokenPair is issued on a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// Identity is the caller resolved from a valid access token.
type Identity struct {
	UserID string
	Email  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*Identity, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}
