package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evenzaa/events-api/internal/api/metrics"
	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

// EventHandler handles HTTP requests for events. Errors are returned to the
// API error handler.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Create handles POST /events.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  eventResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	event, err := h.service.CreateEvent(c.Request().Context(), identity, ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
		Date:        req.Date,
	})
	if err != nil {
		return err
	}

	metrics.EventsCreatedTotal.WithLabelValues(event.Category).Inc()
	return c.JSON(http.StatusCreated, toEventResponse(event))
}

// List handles GET /events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        category   query     string  false  "Exact category"
// @Param        search     query     string  false  "Case-insensitive title match"
// @Param        organizer  query     string  false  "Organizer email"
// @Param        attendee   query     string  false  "Attendee email"
// @Param        range      query     string  false  "today, week, month, upcoming or past"
// @Param        date_from  query     string  false  "RFC 3339 or YYYY-MM-DD"
// @Param        date_to    query     string  false  "RFC 3339 or YYYY-MM-DD"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  eventListResponse
// @Failure      400        {object}  errorResponse
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	in, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListEvents(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventListResponse(result))
}

// Get handles GET /events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.service.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Update handles PATCH /events/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event id"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  eventResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	event, err := h.service.UpdateEvent(c.Request().Context(), identity, c.Param("id"), ports.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
		Date:        req.Date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /events/:id.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteEvent(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted"})
}

// Join handles POST /events/:id/join.
//
// @Summary      Join an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /events/{id}/join [post]
func (h *EventHandler) Join(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	event, err := h.service.JoinEvent(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.EventJoinsTotal.WithLabelValues("join").Inc()
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Leave handles POST /events/:id/leave.
//
// @Summary      Leave an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id}/leave [post]
func (h *EventHandler) Leave(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	event, err := h.service.LeaveEvent(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.EventJoinsTotal.WithLabelValues("leave").Inc()
	return c.JSON(http.StatusOK, toEventResponse(event))
}
