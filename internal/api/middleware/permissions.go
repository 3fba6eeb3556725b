package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthOrReadOnly lets anonymous callers use safe methods and requires a valid
// bearer token for everything else. A token that is sent is always checked,
// so a bad token fails even on a read.
func AuthOrReadOnly(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" && isSafeMethod(c.Request().Method) {
				return next(c)
			}

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

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
