package ports

import (
	"context"
	"time"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// CreateEventInput is the DTO passed from the transport layer to EventService.
type CreateEventInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Image       string
	Date        time.Time
}

// ListEventsInput carries the raw list query. Range is a named window
// (today, week, month, upcoming, past) applied on top of DateFrom/DateTo.
type ListEventsInput struct {
	Category  string
	Search    string
	Organizer string
	Attendee  string
	Range     string
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
	Limit     int
}

// ListEventsResult is returned by ListEvents.
type ListEventsResult struct {
	Items      []*domain.Event
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// EventService defines use-case operations for events. Every mutation takes
// the authenticated caller.
type EventService interface {
	CreateEvent(ctx context.Context, caller *domain.Identity, input CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, input ListEventsInput) (*ListEventsResult, error)
	UpdateEvent(ctx context.Context, caller *domain.Identity, id string, update EventUpdate) (*domain.Event, error)
	DeleteEvent(ctx context.Context, caller *domain.Identity, id string) error
	JoinEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error)
	LeaveEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error)
}
