package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

const identityKey = "identity"

// Authenticator resolves a bearer access token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*ports.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// caller's identity into the context.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			if err := authenticate(c, auth, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by the auth middleware, or nil.
func IdentityFrom(c echo.Context) *ports.Identity {
	id, _ := c.Get(identityKey).(*ports.Identity)
	return id
}

func authenticate(c echo.Context, auth Authenticator, token string) error {
	id, err := auth.Authenticate(c.Request().Context(), token)
	if err != nil {
		return err
	}
	c.Set(identityKey, id)
	return nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// A missing header is ErrUnauthenticated; a malformed one is ErrInvalidToken.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrUnauthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
