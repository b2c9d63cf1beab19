package ports

import (
	"context"
	"time"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// ListEventsFilter carries the resolved query for listing events.
type ListEventsFilter struct {
	Category  string    // optional: exact category match
	Search    string    // optional: case-insensitive partial match on title
	Organizer string    // optional: organizer email
	Attendee  string    // optional: events the email has joined
	DateFrom  time.Time // optional: date >= DateFrom
	DateTo    time.Time // optional: date <= DateTo
	Page      int       // 1-based
	Limit     int
}

// EventUpdate holds the fields to overwrite; nil fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Image       *string
	Date        *time.Time
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns a page of events matching filter and the total count.
	List(ctx context.Context, filter ListEventsFilter) ([]*domain.Event, int64, error)
	Update(ctx context.Context, id string, update EventUpdate) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	// AddAttendee and RemoveAttendee are idempotent set operations.
	AddAttendee(ctx context.Context, id, email string) (*domain.Event, error)
	RemoveAttendee(ctx context.Context, id, email string) (*domain.Event, error)
}
