package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
	"github.com/evenzaa/events-api/internal/core/security"
)

type authFixture struct {
	creds    *stubCredentialRepo
	profiles *stubProfileRepo
	cache    *stubProfileCache
	audit    *stubAuditSink
	svc      *AuthService
}

func newAuthFixture(hasher security.PasswordHasher) *authFixture {
	f := &authFixture{
		creds:    newStubCredentialRepo(),
		profiles: newStubProfileRepo(),
		cache:    newStubProfileCache(),
		audit:    &stubAuditSink{},
	}
	f.svc = NewAuthService(f.creds, f.profiles, hasher, f.cache, f.audit, discardLogger)
	return f
}

func (f *authFixture) signUp(t *testing.T, email, password, name string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.RegisterCredential(ctx, email, password); err != nil {
		t.Fatalf("register credential: %v", err)
	}
	if _, err := f.svc.RegisterProfile(ctx, ports.RegisterProfileInput{Email: email, Name: name}); err != nil {
		t.Fatalf("register profile: %v", err)
	}
}

func TestAuthService_RegisterCredential_Success(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	id, err := f.svc.RegisterCredential(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterCredential returned error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected inserted id")
	}

	stored := f.creds.byEmail["a@x.com"]
	if stored.PasswordHash == "secret" {
		t.Fatalf("expected password to be hashed")
	}
	if stored.SessionToken != nil {
		t.Fatalf("new credential must not hold a session")
	}
	want, _ := security.SHA256Hasher{}.Hash("secret")
	if stored.PasswordHash != want {
		t.Fatalf("unexpected digest %q", stored.PasswordHash)
	}
}

func TestAuthService_RegisterCredential_Validation(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	cases := []struct{ email, password string }{
		{"", "secret"},
		{"a@x.com", ""},
		{"   ", "secret"},
	}
	for _, c := range cases {
		if _, err := f.svc.RegisterCredential(context.Background(), c.email, c.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("(%q,%q): expected ErrValidation, got %v", c.email, c.password, err)
		}
	}
	if len(f.creds.byEmail) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestAuthService_RegisterCredential_DuplicateCredential(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	_, _ = f.svc.RegisterCredential(context.Background(), "a@x.com", "secret")
	if _, err := f.svc.RegisterCredential(context.Background(), "a@x.com", "other"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthService_RegisterCredential_ExistingProfileBlocks(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.profiles.byEmail["a@x.com"] = &domain.Profile{ID: "p1", Email: "a@x.com", Name: "A"}

	if _, err := f.svc.RegisterCredential(context.Background(), "a@x.com", "secret"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, ok := f.creds.byEmail["a@x.com"]; ok {
		t.Fatalf("credential must not be inserted")
	}
}

func TestAuthService_RegisterCredential_StoreFault(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	boom := errors.New("connection refused")
	f.creds.findErr = boom

	_, err := f.svc.RegisterCredential(context.Background(), "a@x.com", "secret")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("store fault must not look like a conflict")
	}
}

func TestAuthService_RegisterProfile(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	id, err := f.svc.RegisterProfile(context.Background(), ports.RegisterProfileInput{Email: "a@x.com", Name: "Ada", Image: "http://img"})
	if err != nil {
		t.Fatalf("RegisterProfile returned error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected id")
	}
	p := f.profiles.byEmail["a@x.com"]
	if p.Name != "Ada" || p.Image != "http://img" || !p.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestAuthService_RegisterProfile_Validation(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	if _, err := f.svc.RegisterProfile(context.Background(), ports.RegisterProfileInput{Email: "a@x.com"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}
	if _, err := f.svc.RegisterProfile(context.Background(), ports.RegisterProfileInput{Name: "Ada"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing email, got %v", err)
	}
}

func TestAuthService_RegisterProfile_WithoutCredential(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	// Profiles are independent of credentials.
	if _, err := f.svc.RegisterProfile(context.Background(), ports.RegisterProfileInput{Email: "solo@x.com", Name: "Solo"}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")

	token, err := f.svc.Login(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(token) != security.TokenBytes*2 {
		t.Fatalf("unexpected token length %d", len(token))
	}
	stored := f.creds.byEmail["a@x.com"].SessionToken
	if stored == nil || *stored != token {
		t.Fatalf("token not persisted")
	}
}

func TestAuthService_Login_Bcrypt(t *testing.T) {
	f := newAuthFixture(security.NewBcryptHasher(bcrypt.MinCost))
	f.signUp(t, "a@x.com", "secret", "Ada")

	if _, err := f.svc.Login(context.Background(), "a@x.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "a@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EnumerationResistant(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")

	_, wrongPass := f.svc.Login(context.Background(), "a@x.com", "wrong")
	_, noUser := f.svc.Login(context.Background(), "ghost@x.com", "secret")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) || !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPass, noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	if _, err := f.svc.Login(context.Background(), "", "secret"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "a@x.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_WhitespacePasswordIsAccepted(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})

	if _, err := f.svc.RegisterCredential(context.Background(), "a@x.com", "   "); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "a@x.com", "   "); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// countingHasher records how many comparisons each login performs.
type countingHasher struct {
	security.SHA256Hasher
	verifies int
}

func (h *countingHasher) Verify(password, digest string) (bool, error) {
	h.verifies++
	return h.SHA256Hasher.Verify(password, digest)
}

func TestAuthService_Login_UnknownEmailStillVerifies(t *testing.T) {
	hasher := &countingHasher{}
	f := newAuthFixture(hasher)
	f.signUp(t, "a@x.com", "secret", "Ada")

	hasher.verifies = 0
	if _, err := f.svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	wrongPassword := hasher.verifies

	hasher.verifies = 0
	if _, err := f.svc.Login(context.Background(), "ghost@x.com", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	unknownEmail := hasher.verifies

	if wrongPassword != 1 || unknownEmail != 1 {
		t.Fatalf("expected one comparison on each path, got %d and %d", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Login_SetTokenFault(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	boom := errors.New("write timeout")
	f.creds.setErr = boom

	if _, err := f.svc.Login(context.Background(), "a@x.com", "secret"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_Login_TokenGeneratorFault(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	boom := errors.New("entropy exhausted")
	f.svc.newToken = func() (string, error) { return "", boom }

	if _, err := f.svc.Login(context.Background(), "a@x.com", "secret"); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if f.creds.byEmail["a@x.com"].SessionToken != nil {
		t.Fatalf("no token should be stored")
	}
}

func TestAuthService_Login_SecondLoginInvalidatesFirst(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	ctx := context.Background()

	t1, _ := f.svc.Login(ctx, "a@x.com", "secret")
	t2, _ := f.svc.Login(ctx, "a@x.com", "secret")
	if t1 == t2 {
		t.Fatalf("expected a fresh token")
	}

	if _, err := f.svc.Authenticate(ctx, t1); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("old token: expected ErrTokenInvalid, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, t2); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	ctx := context.Background()
	token, _ := f.svc.Login(ctx, "a@x.com", "secret")

	if err := f.svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if f.creds.byEmail["a@x.com"].SessionToken != nil {
		t.Fatalf("token not cleared")
	}
	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after logout, got %v", err)
	}
	if err := f.svc.Logout(ctx, token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("second logout: expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	ctx := context.Background()
	token, _ := f.svc.Login(ctx, "a@x.com", "secret")

	id, err := f.svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if id.Email != "a@x.com" || id.Name != "Ada" || id.ID == "" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if _, err := f.svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, "unknown"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_Authenticate_ProfileMissing(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	ctx := context.Background()
	_, _ = f.svc.RegisterCredential(ctx, "a@x.com", "secret")
	token, err := f.svc.Login(ctx, "a@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreFault(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	boom := errors.New("server selection timeout")
	f.creds.tokenErr = boom

	_, err := f.svc.Authenticate(context.Background(), "abc")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	for _, known := range []error{domain.ErrTokenInvalid, domain.ErrTokenMalformed, domain.ErrProfileNotFound} {
		if errors.Is(err, known) {
			t.Fatalf("store fault must not map to %v", known)
		}
	}
}

func TestAuthService_Authenticate_UsesProfileCache(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	ctx := context.Background()
	token, _ := f.svc.Login(ctx, "a@x.com", "secret")
	f.profiles.reads = 0

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Authenticate(ctx, token); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
	}
	if f.profiles.reads != 1 {
		t.Fatalf("expected one store read, got %d", f.profiles.reads)
	}
	if f.cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", f.cache.sets)
	}
}

func TestAuthService_Authenticate_CacheFailureFallsBack(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	f.signUp(t, "a@x.com", "secret", "Ada")
	ctx := context.Background()
	token, _ := f.svc.Login(ctx, "a@x.com", "secret")
	f.cache.getErr = errors.New("redis down")
	f.cache.setErr = errors.New("redis down")

	id, err := f.svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if id.Name != "Ada" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_RecordsAuditTrail(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	ctx := ContextWithRequestID(context.Background(), "req-1")

	_, _ = f.svc.RegisterCredential(ctx, "a@x.com", "secret")
	_, _ = f.svc.RegisterProfile(ctx, ports.RegisterProfileInput{Email: "a@x.com", Name: "Ada"})
	_, _ = f.svc.Login(ctx, "a@x.com", "bad")
	token, _ := f.svc.Login(ctx, "a@x.com", "secret")
	_ = f.svc.Logout(ctx, token)

	want := []domain.AuthEventKind{
		domain.AuthCredentialRegistered,
		domain.AuthProfileRegistered,
		domain.AuthLoginFailed,
		domain.AuthLoginSucceeded,
		domain.AuthLogout,
	}
	if got := f.audit.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("audit kinds = %v, want %v", got, want)
	}
	for _, e := range f.audit.events {
		if e.RequestID != "req-1" || e.Email != "a@x.com" {
			t.Fatalf("unexpected audit event: %+v", e)
		}
	}
}

func TestAuthService_Scenario(t *testing.T) {
	f := newAuthFixture(security.SHA256Hasher{})
	ctx := context.Background()

	id, err := f.svc.RegisterCredential(ctx, "a@x.com", "secret")
	if err != nil || id == "" {
		t.Fatalf("first registration: id=%q err=%v", id, err)
	}
	if _, err := f.svc.RegisterCredential(ctx, "a@x.com", "secret"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second registration: expected ErrAlreadyExists, got %v", err)
	}
	if tok, err := f.svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) || tok != "" {
		t.Fatalf("wrong password: tok=%q err=%v", tok, err)
	}
	token, err := f.svc.Login(ctx, "a@x.com", "secret")
	if err != nil || token == "" {
		t.Fatalf("login: tok=%q err=%v", token, err)
	}

	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("without profile: expected ErrProfileNotFound, got %v", err)
	}
	if _, err := f.svc.RegisterProfile(ctx, ports.RegisterProfileInput{Email: "a@x.com", Name: "Ada"}); err != nil {
		t.Fatalf("register profile: %v", err)
	}
	ident, err := f.svc.Authenticate(ctx, token)
	if err != nil || ident.Email != "a@x.com" {
		t.Fatalf("with profile: ident=%+v err=%v", ident, err)
	}
}
