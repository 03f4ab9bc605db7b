package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// ErrUnknownProfile is returned when saving under a profile the store does not know.
var ErrUnknownProfile = errors.New("unknown profile")

// Storage keys shared with the web console.
const (
	keyStandardToken    = "admin_token"
	keyStandardIdentity = "admin_user"
	keyRememberedEmail  = "admin_email"
	keyElevatedToken    = "super_admin_token"
	keyElevatedIdentity = "super_admin_user"
)

// Store holds the current credential and cached identity per profile. The standard
// profile lives in a persistent backend; the elevated profile lives in a process-scoped
// one. Backend failures are logged and read as "no credential".
type Store struct {
	persistent Backend
	scoped     Backend
	logger     *zap.Logger
}

// NewStore wires the two backends. A nil scoped backend defaults to memory.
func NewStore(persistent, scoped Backend, logger *zap.Logger) *Store {
	if persistent == nil {
		persistent = NewMemoryBackend()
	}
	if scoped == nil {
		scoped = NewMemoryBackend()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{persistent: persistent, scoped: scoped, logger: logger}
}

func (s *Store) backend(p domain.Profile) (Backend, string, string, bool) {
	switch p {
	case domain.ProfileStandard:
		return s.persistent, keyStandardToken, keyStandardIdentity, true
	case domain.ProfileElevated:
		return s.scoped, keyElevatedToken, keyElevatedIdentity, true
	default:
		return nil, "", "", false
	}
}

// SaveLogin stores token and identity for profile. The token is written last so a failed
// save never leaves a usable credential behind. The token is not inspected.
func (s *Store) SaveLogin(ctx context.Context, p domain.Profile, token string, identity domain.Identity) error {
	b, tokenKey, identityKey, ok := s.backend(p)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, p)
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := b.Set(ctx, identityKey, string(raw)); err != nil {
		return fmt.Errorf("store identity: %w", err)
	}
	if err := b.Set(ctx, tokenKey, token); err != nil {
		if derr := b.Delete(ctx, tokenKey, identityKey); derr != nil {
			s.logger.Warn("roll back partial login failed", zap.String("profile", string(p)), zap.Error(derr))
		}
		return fmt.Errorf("store token: %w", err)
	}
	if p == domain.ProfileStandard && identity.Email != "" {
		if err := b.Set(ctx, keyRememberedEmail, identity.Email); err != nil {
			s.logger.Warn("remember email failed", zap.Error(err))
		}
	}
	return nil
}

// Token returns the stored token for one profile.
func (s *Store) Token(ctx context.Context, p domain.Profile) (string, bool) {
	b, tokenKey, _, ok := s.backend(p)
	if !ok {
		return "", false
	}
	token, found, err := b.Get(ctx, tokenKey)
	if err != nil {
		s.logger.Warn("read token failed", zap.String("profile", string(p)), zap.Error(err))
		return "", false
	}
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// CurrentCredential returns the most privileged stored credential.
func (s *Store) CurrentCredential(ctx context.Context) (domain.Credential, bool) {
	for _, p := range domain.Profiles {
		if token, ok := s.Token(ctx, p); ok {
			return domain.Credential{Token: token, Profile: p}, true
		}
	}
	return domain.Credential{}, false
}

// Identity returns the cached identity of the profile that currently holds a token, or
// nil when it is missing or unreadable.
func (s *Store) Identity(ctx context.Context) *domain.Identity {
	cred, ok := s.CurrentCredential(ctx)
	if !ok {
		return nil
	}
	return s.ProfileIdentity(ctx, cred.Profile)
}

// ProfileIdentity returns the cached identity of one profile.
func (s *Store) ProfileIdentity(ctx context.Context, p domain.Profile) *domain.Identity {
	b, _, identityKey, ok := s.backend(p)
	if !ok {
		return nil
	}
	raw, found, err := b.Get(ctx, identityKey)
	if err != nil {
		s.logger.Warn("read identity failed", zap.String("profile", string(p)), zap.Error(err))
		return nil
	}
	if !found || raw == "" {
		return nil
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Debug("discarding unreadable identity", zap.String("profile", string(p)), zap.Error(err))
		return nil
	}
	return &identity
}

// RememberedEmail returns the last standard-profile email, kept across logouts.
func (s *Store) RememberedEmail(ctx context.Context) string {
	v, _, err := s.persistent.Get(ctx, keyRememberedEmail)
	if err != nil {
		s.logger.Warn("read remembered email failed", zap.Error(err))
		return ""
	}
	return v
}

// Clear removes token and identity for the given profiles, or every profile when none are
// given. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context, profiles ...domain.Profile) {
	if len(profiles) == 0 {
		profiles = domain.Profiles
	}
	for _, p := range profiles {
		b, tokenKey, identityKey, ok := s.backend(p)
		if !ok {
			continue
		}
		if err := b.Delete(ctx, tokenKey, identityKey); err != nil {
			s.logger.Warn("clear credential failed", zap.String("profile", string(p)), zap.Error(err))
		}
	}
}

// Close releases both backends.
func (s *Store) Close() error {
	return errors.Join(s.persistent.Close(), s.scoped.Close())
}
