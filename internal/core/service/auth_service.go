package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
	"github.com/evenzaa/events-api/internal/core/security"
)

const decoyPassword = "evenzaa-unknown-account"

// ProfileCache abstracts the read-through profile cache (Redis). Get returns
// (nil, nil) on a miss. Profiles are never mutated, so entries need no
// invalidation.
type ProfileCache interface {
	Get(ctx context.Context, email string) (*domain.Profile, error)
	Set(ctx context.Context, profile *domain.Profile) error
}

// AuthService implements registration, login, logout and session lookup on
// top of single-slot opaque tokens.
type AuthService struct {
	credentials ports.CredentialRepository
	profiles    ports.ProfileRepository
	hasher      security.PasswordHasher
	cache       ProfileCache
	audit       ports.AuditSink
	log         zerolog.Logger

	// decoy is verified against when the email is unknown so both login
	// failures cost one hash comparison.
	decoy string

	newToken func() (string, error)
	now      func() time.Time
}

// NewAuthService wires the flow. cache and audit may be nil.
func NewAuthService(
	credentials ports.CredentialRepository,
	profiles ports.ProfileRepository,
	hasher security.PasswordHasher,
	cache ProfileCache,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if cache == nil {
		cache = nopProfileCache{}
	}
	if audit == nil {
		audit = nopAuditSink{}
	}
	decoy, err := hasher.Hash(decoyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("decoy digest unavailable")
	}
	return &AuthService{
		credentials: credentials,
		profiles:    profiles,
		hasher:      hasher,
		cache:       cache,
		audit:       audit,
		log:         log,
		decoy:       decoy,
		newToken:    security.GenerateToken,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RegisterCredential creates the login record for email. It refuses emails
// that already own a credential or a profile; the two lookups are independent
// and the unique index on email settles concurrent registrations.
func (s *AuthService) RegisterCredential(ctx context.Context, email, password string) (string, error) {
	if blank(email) || password == "" {
		return "", domain.ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("register credential: %w", err)
	}

	if _, err := s.credentials.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrCredentialNotFound) {
		return "", fmt.Errorf("register credential: %w", err)
	}

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return "", fmt.Errorf("register credential: %w", err)
	}

	cred, err := s.credentials.Insert(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("register credential: %w", err)
	}

	s.record(ctx, domain.AuthCredentialRegistered, email)
	s.log.Info().Str("email", email).Str("request_id", requestID(ctx)).Msg("credential registered")
	return cred.ID, nil
}

// RegisterProfile stores the public profile for email. It is a separate step
// from RegisterCredential with no transactional link between the two.
func (s *AuthService) RegisterProfile(ctx context.Context, in ports.RegisterProfileInput) (string, error) {
	if blank(in.Email) || blank(in.Name) {
		return "", domain.ErrValidation
	}

	created, err := s.profiles.Insert(ctx, &domain.Profile{
		Email:     in.Email,
		Name:      in.Name,
		Image:     in.Image,
		CreatedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("register profile: %w", err)
	}

	s.record(ctx, domain.AuthProfileRegistered, in.Email)
	return created.ID, nil
}

// Login checks the password and issues a new session token, overwriting any
// token the account held before. Unknown emails and wrong passwords yield
// the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if blank(email) || password == "" {
		return "", domain.ErrValidation
	}

	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			_, _ = s.hasher.Verify(password, s.decoy)
			s.record(ctx, domain.AuthLoginFailed, email)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.record(ctx, domain.AuthLoginFailed, email)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.newToken()
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	matched, err := s.credentials.SetToken(ctx, cred.Email, &token)
	if err != nil {
		return "", fmt.Errorf("login: store token: %w", err)
	}
	if !matched {
		return "", domain.ErrInvalidCredentials
	}

	s.record(ctx, domain.AuthLoginSucceeded, email)
	s.log.Info().Str("email", email).Str("request_id", requestID(ctx)).Msg("session issued")
	return token, nil
}

// Logout clears the session slot holding token. A token that no longer
// occupies any slot is reported as invalid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenMalformed
	}

	cred, err := s.credentials.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("logout: %w", err)
	}

	cleared, err := s.credentials.ClearTokenByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if !cleared {
		return domain.ErrTokenInvalid
	}

	s.record(ctx, domain.AuthLogout, cred.Email)
	s.log.Info().Str("email", cred.Email).Str("request_id", requestID(ctx)).Msg("session cleared")
	return nil
}

// Authenticate resolves a bearer token to the identity of its holder.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}

	cred, err := s.credentials.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	profile, err := s.profile(ctx, cred.Email)
	if err != nil {
		return nil, err
	}
	return domain.IdentityFromProfile(profile), nil
}

func (s *AuthService) profile(ctx context.Context, email string) (*domain.Profile, error) {
	cached, err := s.cache.Get(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("profile cache read failed, falling back to store")
	} else if cached != nil {
		return cached, nil
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("authenticate: load profile: %w", err)
	}

	if err := s.cache.Set(ctx, profile); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("profile cache write failed")
	}
	return profile, nil
}

func (s *AuthService) record(ctx context.Context, kind domain.AuthEventKind, email string) {
	s.audit.Record(domain.AuthEvent{
		Kind:      kind,
		Email:     email,
		RequestID: requestID(ctx),
		At:        s.now(),
	})
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

type nopProfileCache struct{}

func (nopProfileCache) Get(context.Context, string) (*domain.Profile, error) { return nil, nil }
func (nopProfileCache) Set(context.Context, *domain.Profile) error           { return nil }

type nopAuditSink struct{}

func (nopAuditSink) Record(domain.AuthEvent) {}
