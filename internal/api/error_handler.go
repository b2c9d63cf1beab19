package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorMapping struct {
	target error
	status int
	code   string
	// detailed mappings echo the wrapped message back to the client.
	detailed bool
}

// Ordered: the first match wins.
var errorMappings = []errorMapping{
	{target: domain.ErrTokenMissing, status: http.StatusUnauthorized, code: "token_missing"},
	{target: domain.ErrTokenMalformed, status: http.StatusForbidden, code: "token_malformed"},
	{target: domain.ErrTokenInvalid, status: http.StatusForbidden, code: "token_invalid"},
	{target: domain.ErrProfileNotFound, status: http.StatusNotFound, code: "profile_not_found"},
	{target: domain.ErrEventNotFound, status: http.StatusNotFound, code: "event_not_found"},
	{target: domain.ErrForbidden, status: http.StatusForbidden, code: "forbidden"},
	{target: domain.ErrValidation, status: http.StatusBadRequest, code: "validation_failed", detailed: true},
	{target: domain.ErrInvalidFilter, status: http.StatusBadRequest, code: "invalid_filter", detailed: true},
	{target: domain.ErrAlreadyExists, status: http.StatusConflict, code: "already_exists"},
	{target: domain.ErrOrganizerCannotJoin, status: http.StatusConflict, code: "organizer_cannot_join"},
	{target: domain.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "invalid_credentials"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "...", "code": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.target.Error()
			if m.detailed {
				msg = err.Error()
			}
			return m.status, errorResponse{Message: msg, Code: m.code}
		}
	}

	// Echo's own errors (bind failures, 404 from router, timeouts, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message), Code: codeForStatus(he.Code)}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, errorResponse{Message: "internal server error", Code: "internal_error"}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "request_failed"
}
