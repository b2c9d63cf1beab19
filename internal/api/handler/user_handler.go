package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/api/metrics"
	"github.com/evenzaa/events-api/internal/core/ports"
)

// UserHandler serves the profile side of an account.
type UserHandler struct {
	authService  ports.AuthService
	eventService ports.EventService
	log          zerolog.Logger
}

func NewUserHandler(authService ports.AuthService, eventService ports.EventService, log zerolog.Logger) *UserHandler {
	return &UserHandler{authService: authService, eventService: eventService, log: log}
}

// RegisterProfile stores the public profile for an email. It does not
// require a credential to exist.
//
// @Summary      Register a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile"
// @Success      201   {object}  insertedResponse
// @Failure      400   {object}  insertedResponse
// @Failure      409   {object}  insertedResponse
// @Failure      500   {object}  insertedResponse
// @Router       /users [post]
func (h *UserHandler) RegisterProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("profile", "invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, insertedResponse{Message: msgInvalidPayload})
	}

	id, err := h.authService.RegisterProfile(c.Request().Context(), ports.RegisterProfileInput{
		Email: req.Email,
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		status, msg := authFailure(h.log, c, err)
		metrics.RegistrationsTotal.WithLabelValues("profile", registrationResult(status)).Inc()
		return c.JSON(status, insertedResponse{Message: msg})
	}

	metrics.RegistrationsTotal.WithLabelValues("profile", "success").Inc()
	return c.JSON(http.StatusCreated, insertedResponse{InsertedID: &id})
}

// Me returns the authenticated caller.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// MyEvents lists the events the caller organizes.
//
// @Summary      Events organized by the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  eventListResponse
// @Failure      401    {object}  errorResponse
// @Router       /user/events [get]
func (h *UserHandler) MyEvents(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	in, err := parseListQuery(c)
	if err != nil {
		return err
	}
	in.Organizer = identity.Email
	return h.list(c, in)
}

// JoinedEvents lists the events the caller attends.
//
// @Summary      Events joined by the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  eventListResponse
// @Failure      401    {object}  errorResponse
// @Router       /user/events/joined [get]
func (h *UserHandler) JoinedEvents(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	in, err := parseListQuery(c)
	if err != nil {
		return err
	}
	in.Attendee = identity.Email
	return h.list(c, in)
}

func (h *UserHandler) list(c echo.Context, in ports.ListEventsInput) error {
	result, err := h.eventService.ListEvents(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventListResponse(result))
}
