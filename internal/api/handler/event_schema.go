package handler

import (
	"time"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// --- Request types ---

type createEventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category"    validate:"required"`
	Location    string    `json:"location"    validate:"required"`
	Image       string    `json:"image"       validate:"omitempty,url"`
	Date        time.Time `json:"date"        validate:"required"`
}

// updateEventRequest is a partial update: absent fields are left untouched.
type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	Image       *string    `json:"image"       validate:"omitempty,url"`
	Date        *time.Time `json:"date"`
}

// --- Response types ---

// Response-only types owned by the transport layer so the JSON contract is
// not coupled to domain changes.

type identityResponse struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type eventResponse struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	Image          string    `json:"image,omitempty"`
	Date           time.Time `json:"date"`
	OrganizerEmail string    `json:"organizerEmail"`
	OrganizerName  string    `json:"organizerName"`
	Attendees      []string  `json:"attendees"`
	AttendeeCount  int       `json:"attendeeCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type eventListResponse struct {
	Items      []eventResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Mappers ---

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:        i.ID,
		Email:     i.Email,
		Name:      i.Name,
		Image:     i.Image,
		CreatedAt: i.CreatedAt,
	}
}

func toEventResponse(e *domain.Event) eventResponse {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Category:       e.Category,
		Location:       e.Location,
		Image:          e.Image,
		Date:           e.Date,
		OrganizerEmail: e.OrganizerEmail,
		OrganizerName:  e.OrganizerName,
		Attendees:      attendees,
		AttendeeCount:  len(attendees),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toEventListResponse(r *ports.ListEventsResult) eventListResponse {
	items := make([]eventResponse, 0, len(r.Items))
	for _, e := range r.Items {
		items = append(items, toEventResponse(e))
	}
	return eventListResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
