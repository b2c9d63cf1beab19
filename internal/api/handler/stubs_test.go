package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evenzaa/events-api/internal/api/middleware"
	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

type stubAuthService struct {
	registerCredentialFn func(ctx context.Context, email, password string) (string, error)
	registerProfileFn    func(ctx context.Context, in ports.RegisterProfileInput) (string, error)
	loginFn              func(ctx context.Context, email, password string) (string, error)
	logoutFn             func(ctx context.Context, token string) error
}

func (s *stubAuthService) RegisterCredential(ctx context.Context, email, password string) (string, error) {
	return s.registerCredentialFn(ctx, email, password)
}

func (s *stubAuthService) RegisterProfile(ctx context.Context, in ports.RegisterProfileInput) (string, error) {
	return s.registerProfileFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrTokenInvalid
}

type stubEventService struct {
	createFn func(ctx context.Context, caller *domain.Identity, in ports.CreateEventInput) (*domain.Event, error)
	getFn    func(ctx context.Context, id string) (*domain.Event, error)
	listFn   func(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error)
	updateFn func(ctx context.Context, caller *domain.Identity, id string, u ports.EventUpdate) (*domain.Event, error)
	deleteFn func(ctx context.Context, caller *domain.Identity, id string) error
	joinFn   func(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error)
	leaveFn  func(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error)
}

func (s *stubEventService) CreateEvent(ctx context.Context, caller *domain.Identity, in ports.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.getFn(ctx, id)
}

func (s *stubEventService) ListEvents(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubEventService) UpdateEvent(ctx context.Context, caller *domain.Identity, id string, u ports.EventUpdate) (*domain.Event, error) {
	return s.updateFn(ctx, caller, id, u)
}

func (s *stubEventService) DeleteEvent(ctx context.Context, caller *domain.Identity, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubEventService) JoinEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error) {
	return s.joinFn(ctx, caller, id)
}

func (s *stubEventService) LeaveEvent(ctx context.Context, caller *domain.Identity, id string) (*domain.Event, error) {
	return s.leaveFn(ctx, caller, id)
}

var alice = &domain.Identity{ID: "p1", Email: "alice@example.com", Name: "Alice"}

// newContext builds an echo context for a JSON request. A non-nil identity
// simulates a request that passed the Session middleware.
func newContext(t *testing.T, method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, identity)
		c.Set(middleware.SessionTokenKey, "tok-"+identity.ID)
	}
	return c, rec
}
