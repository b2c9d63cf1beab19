package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

const dayLayout = "2006-01-02"

// parseListQuery reads the event list filters from the query string.
func parseListQuery(c echo.Context) (ports.ListEventsInput, error) {
	var (
		in       ports.ListEventsInput
		from, to string
	)
	err := echo.QueryParamsBinder(c).
		String("category", &in.Category).
		String("search", &in.Search).
		String("organizer", &in.Organizer).
		String("attendee", &in.Attendee).
		String("range", &in.Range).
		String("date_from", &from).
		String("date_to", &to).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return in, fmt.Errorf("%w: page and limit must be integers", domain.ErrInvalidFilter)
	}

	if in.DateFrom, err = parseDate(from, false); err != nil {
		return in, fmt.Errorf("%w: date_from: %s", domain.ErrInvalidFilter, err)
	}
	if in.DateTo, err = parseDate(to, true); err != nil {
		return in, fmt.Errorf("%w: date_to: %s", domain.ErrInvalidFilter, err)
	}
	if !in.DateFrom.IsZero() && !in.DateTo.IsZero() && in.DateTo.Before(in.DateFrom) {
		return in, fmt.Errorf("%w: date_to is before date_from", domain.ErrInvalidFilter)
	}
	return in, nil
}

// parseDate accepts RFC 3339 or a bare day. A bare day used as an upper bound
// covers the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
