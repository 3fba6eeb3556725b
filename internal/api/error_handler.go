package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgInvalidToken     = "Given token not valid for any token type"
	msgNoActiveAccount  = "No active account found with the given credentials"
	msgForbidden        = "You do not have permission to perform this action."
	msgNotFound         = "Not found."
	msgInvalidPage      = "Invalid page."
	msgThrottled        = "Request was throttled."
	msgUnexpected       = "An unexpected error occurred."
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders field errors as {"<field>": ["msg"], "status_code": 400} and
//     everything else as {"detail": "<message>", "status_code": <code>}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, map[string]any) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body := make(map[string]any, len(ve.Fields)+1)
		for field, msgs := range ve.Fields {
			body[field] = msgs
		}
		body["status_code"] = http.StatusBadRequest
		return http.StatusBadRequest, body
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateRating):
		return detail(http.StatusBadRequest, domain.DuplicateRatingMessage)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return detail(http.StatusUnauthorized, msgNoActiveAccount)
	case errors.Is(err, domain.ErrUnauthenticated):
		return detail(http.StatusUnauthorized, msgNotAuthenticated)
	case errors.Is(err, domain.ErrInvalidToken):
		return detail(http.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, domain.ErrForbidden):
		return detail(http.StatusForbidden, msgForbidden)
	case errors.Is(err, domain.ErrInvalidPage):
		return detail(http.StatusNotFound, msgInvalidPage)
	case errors.Is(err, domain.ErrNotFound):
		return detail(http.StatusNotFound, msgNotFound)
	}

	// Echo's own errors (bind failures, unknown routes, rate limiting).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return detail(he.Code, httpErrorMessage(he, c))
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return detail(http.StatusInternalServerError, msgUnexpected)
}

func detail(code int, msg string) (int, map[string]any) {
	return code, map[string]any{"detail": msg, "status_code": code}
}

func httpErrorMessage(he *echo.HTTPError, c echo.Context) string {
	switch he.Code {
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusMethodNotAllowed:
		return fmt.Sprintf("Method %q not allowed.", c.Request().Method)
	case http.StatusTooManyRequests:
		return msgThrottled
	case http.StatusUnsupportedMediaType:
		return fmt.Sprintf("Unsupported media type %q in request.", c.Request().Header.Get(echo.HeaderContentType))
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}
