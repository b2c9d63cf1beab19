package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/api/metrics"
	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

const (
	msgInvalidPayload = "invalid payload"
	msgInternal       = "internal server error"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterCredential stores an email/password pair.
//
// @Summary      Register a credential
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialRequest  true  "Email and password"
// @Success      201   {object}  insertedResponse
// @Failure      400   {object}  insertedResponse
// @Failure      409   {object}  insertedResponse
// @Failure      500   {object}  insertedResponse
// @Router       /jwt/register [post]
func (h *AuthHandler) RegisterCredential(c echo.Context) error {
	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("credential", "invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, insertedResponse{Message: msgInvalidPayload})
	}

	id, err := h.authService.RegisterCredential(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authFailure(h.log, c, err)
		metrics.RegistrationsTotal.WithLabelValues("credential", registrationResult(status)).Inc()
		return c.JSON(status, insertedResponse{Message: msg})
	}

	metrics.RegistrationsTotal.WithLabelValues("credential", "success").Inc()
	return c.JSON(http.StatusCreated, insertedResponse{InsertedID: &id})
}

// Login exchanges valid credentials for a session token. Any previously
// issued token stops working.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialRequest  true  "Email and password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  tokenResponse
// @Failure      401   {object}  tokenResponse
// @Failure      500   {object}  tokenResponse
// @Router       /jwt/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, tokenResponse{Message: msgInvalidPayload})
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authFailure(h.log, c, err)
		metrics.LoginsTotal.WithLabelValues(loginResult(err, status)).Inc()
		return c.JSON(status, tokenResponse{Message: msg})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Message: "login successful", Token: &token})
}

// Logout clears the caller's session token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  tokenResponse
// @Failure      500  {object}  tokenResponse
// @Router       /jwt/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := sessionTokenFrom(c)
	if token == "" {
		return domain.ErrTokenMissing
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		status, msg := authFailure(h.log, c, err)
		return c.JSON(status, tokenResponse{Message: msg, Token: &token})
	}

	metrics.LogoutsTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Message: "logout successful"})
}

// authFailure maps an auth flow error to a status and a client-safe message.
func authFailure(log zerolog.Logger, c echo.Context, err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, domain.ErrValidation.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, domain.ErrAlreadyExists.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusForbidden, domain.ErrTokenInvalid.Error()
	}

	log.Error().
		Err(err).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("auth request failed")
	return http.StatusInternalServerError, msgInternal
}

func registrationResult(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusConflict:
		return "conflict"
	default:
		return "error"
	}
}

func loginResult(err error, status int) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case status == http.StatusBadRequest:
		return "invalid_request"
	default:
		return "error"
	}
}
