package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

type stubCredentialRepo struct {
	byEmail  map[string]*domain.Credential
	findErr  error
	tokenErr error
	setErr   error
	inserts  int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byEmail: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	clone := *c
	if c.SessionToken != nil {
		tok := *c.SessionToken
		clone.SessionToken = &tok
	}
	return &clone
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) FindByToken(_ context.Context, token string) (*domain.Credential, error) {
	if r.tokenErr != nil {
		return nil, r.tokenErr
	}
	for _, c := range r.byEmail {
		if token != "" && c.SessionToken != nil && *c.SessionToken == token {
			return cloneCredential(c), nil
		}
	}
	return nil, domain.ErrCredentialNotFound
}

func (r *stubCredentialRepo) Insert(_ context.Context, email, passwordHash string) (*domain.Credential, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	r.inserts++
	c := &domain.Credential{ID: fmt.Sprintf("cred-%d", r.inserts), Email: email, PasswordHash: passwordHash}
	r.byEmail[email] = c
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) SetToken(_ context.Context, email string, token *string) (bool, error) {
	if r.setErr != nil {
		return false, r.setErr
	}
	c, ok := r.byEmail[email]
	if !ok {
		return false, nil
	}
	if token == nil {
		c.SessionToken = nil
	} else {
		tok := *token
		c.SessionToken = &tok
	}
	return true, nil
}

func (r *stubCredentialRepo) ClearTokenByToken(_ context.Context, token string) (bool, error) {
	for _, c := range r.byEmail {
		if token != "" && c.SessionToken != nil && *c.SessionToken == token {
			c.SessionToken = nil
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	byEmail map[string]*domain.Profile
	findErr error
	reads   int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byEmail: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.reads++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Insert(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := *p
	clone.ID = "profile-" + p.Email
	r.byEmail[p.Email] = &clone
	out := clone
	return &out, nil
}

// ---------------------------------------------------------------------------
// Cache and audit
// ---------------------------------------------------------------------------

type stubProfileCache struct {
	entries map[string]*domain.Profile
	getErr  error
	setErr  error
	sets    int
}

func newStubProfileCache() *stubProfileCache {
	return &stubProfileCache{entries: make(map[string]*domain.Profile)}
}

func (c *stubProfileCache) Get(_ context.Context, email string) (*domain.Profile, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[email], nil
}

func (c *stubProfileCache) Set(_ context.Context, p *domain.Profile) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[p.Email] = p
	return nil
}

type stubAuditSink struct {
	events []domain.AuthEvent
}

func (s *stubAuditSink) Record(e domain.AuthEvent) {
	s.events = append(s.events, e)
}

func (s *stubAuditSink) kinds() []domain.AuthEventKind {
	out := make([]domain.AuthEventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	byID      map[string]*domain.Event
	createErr error
	listErr   error
	lastList  ports.ListEventsFilter
	nextID    int
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{byID: make(map[string]*domain.Event)}
}

func cloneEvent(e *domain.Event) *domain.Event {
	clone := *e
	clone.Attendees = append([]string(nil), e.Attendees...)
	return &clone
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := cloneEvent(e)
	stored.ID = fmt.Sprintf("evt-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneEvent(stored), nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubEventRepo) List(_ context.Context, f ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	r.lastList = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Event
	for _, e := range r.byID {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Organizer != "" && e.OrganizerEmail != f.Organizer {
			continue
		}
		if f.Attendee != "" && !e.HasAttendee(f.Attendee) {
			continue
		}
		if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && e.Date.After(f.DateTo) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, cloneEvent(e))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Event{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubEventRepo) Update(_ context.Context, id string, u ports.EventUpdate) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Image != nil {
		e.Image = *u.Image
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	return cloneEvent(e), nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubEventRepo) AddAttendee(_ context.Context, id, email string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if !e.HasAttendee(email) {
		e.Attendees = append(e.Attendees, email)
	}
	return cloneEvent(e), nil
}

func (r *stubEventRepo) RemoveAttendee(_ context.Context, id, email string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	kept := e.Attendees[:0]
	for _, a := range e.Attendees {
		if a != email {
			kept = append(kept, a)
		}
	}
	e.Attendees = kept
	return cloneEvent(e), nil
}
