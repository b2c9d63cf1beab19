package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 100000
)

// Named windows accepted by ListEventsInput.Range.
const (
	RangeToday    = "today"
	RangeWeek     = "week"
	RangeMonth    = "month"
	RangeUpcoming = "upcoming"
	RangePast     = "past"
)

type EventService struct {
	repo   ports.EventRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewEventService(repo ports.EventRepository, logger zerolog.Logger) *EventService {
	return &EventService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateEvent stores a new event owned by caller.
func (s *EventService) CreateEvent(ctx context.Context, caller *domain.Identity, in ports.CreateEventInput) (*domain.Event, error) {
	if blank(in.Title) || blank(in.Category) || blank(in.Location) || in.Date.IsZero() {
		return nil, domain.ErrValidation
	}

	now := s.now()
	event := &domain.Event{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Category:       strings.TrimSpace(in.Category),
		Location:       strings.TrimSpace(in.Location),
		Image:          in.Image,
		Date:           in.Date.UTC(),
		OrganizerEmail: caller.Email,
		OrganizerName:  caller.Name,
		Attendees:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create event")
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info().Str("event_id", created.ID).Str("organizer", caller.Email).Msg("event created")
	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

// ListEvents resolves the named range, clamps paging and queries the store.
func (s *EventService) ListEvents(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
	from, to, err := resolveRange(in.Range, s.now())
	if err != nil {
		return nil, err
	}
	from = later(from, in.DateFrom)
	to = earlier(to, in.DateTo)

	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return nil, fmt.Errorf("%w: page must not exceed %d", domain.ErrInvalidFilter, maxPage)
	}

	items, total, err := s.repo.List(ctx, ports.ListEventsFilter{
		Category:  strings.TrimSpace(in.Category),
		Search:    strings.TrimSpace(in.Search),
		Organizer: in.Organizer,
		Attendee:  in.Attendee,
		DateFrom:  from,
		DateTo:    to,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if items == nil {
		items = []*domain.Event{}
	}

	return &ports.ListEventsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// UpdateEvent applies update when caller organizes the event.
func (s *EventService) UpdateEvent(ctx context.Context, caller *domain.Identity, id string, update ports.EventUpdate) (*domain.Event, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	if update.Title != nil && blank(*update.Title) {
		return nil, domain.ErrValidation
	}
	if update.Date != nil && update.Date.IsZero() {
		return nil, domain.ErrValidation
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes the event when caller organizes it.
func (s *EventService) DeleteEvent(ctx context.Context, caller *domain.Identity, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info().Str("event_id", id).Str("organizer", caller.Email).Msg("event deleted")
	return nil
}

// JoinEvent adds caller to the attendees. Joining twice is a no-op.
func (s *EventService) JoinEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsOrganizer(caller.Email) {
		return nil, domain.ErrOrganizerCannotJoin
	}
	if event.HasAttendee(caller.Email) {
		return event, nil
	}
	return s.repo.AddAttendee(ctx, id, caller.Email)
}

// LeaveEvent removes caller from the attendees.
func (s *EventService) LeaveEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error) {
	return s.repo.RemoveAttendee(ctx, id, caller.Email)
}

func (s *EventService) owned(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsOrganizer(caller.Email) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// resolveRange converts a named window into [from, to]. Zero values mean
// unbounded.
func resolveRange(name string, now time.Time) (from, to time.Time, err error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return time.Time{}, time.Time{}, nil
	case RangeToday:
		return startOfDay, startOfDay.Add(24*time.Hour - time.Nanosecond), nil
	case RangeWeek:
		return now, now.AddDate(0, 0, 7), nil
	case RangeMonth:
		return now, now.AddDate(0, 1, 0), nil
	case RangeUpcoming:
		return now, time.Time{}, nil
	case RangePast:
		return time.Time{}, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown range %q", domain.ErrInvalidFilter, name)
	}
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlier(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}
