// Package session holds the authenticated identity and token, persisted to a
// local store and attached to the request pipeline as a credential provider.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// Pipeline is the part of the HTTP adapter the session configures.
type Pipeline interface {
	AttachCredentials(api.Credentials)
	DetachCredentials()
}

// Session is the single source of truth for the current identity.
type Session struct {
	mu       sync.RWMutex
	user     *models.User
	token    string
	store    *Store
	pipeline Pipeline
	logger   zerolog.Logger
}

// New creates an empty session bound to the store and request pipeline.
func New(store *Store, pipeline Pipeline, logger zerolog.Logger) *Session {
	return &Session{
		store:    store,
		pipeline: pipeline,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// Restore loads a previously persisted session, if any, and attaches the
// credential provider eagerly. The token is not validated against the server;
// an expired one surfaces lazily as the first 401.
func (s *Session) Restore(ctx context.Context) error {
	token, userJSON, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	if userJSON != "" {
		var u models.User
		if err := json.Unmarshal([]byte(userJSON), &u); err == nil {
			s.user = &u
		}
	}
	s.mu.Unlock()

	s.pipeline.AttachCredentials(s)
	s.logger.Info().Msg("session restored from store")
	return nil
}

// Login sets the identity, attaches the credential provider, and persists it.
// The provider is attached before the save: a failed save still leaves a
// working in-memory session that simply does not survive a restart.
func (s *Session) Login(ctx context.Context, token string, user models.User) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	s.pipeline.AttachCredentials(s)

	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, token, string(userJSON)); err != nil {
		return err
	}
	s.logger.Info().Str("user", user.Email).Msg("logged in")
	return nil
}

// Logout clears the identity, the persisted row, and the credential provider.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear persisted session")
	}
	s.pipeline.DetachCredentials()
	s.logger.Info().Msg("logged out")
}

// Teardown is the unauthorized hook target: same effect as Logout.
func (s *Session) Teardown(ctx context.Context) {
	s.Logout(ctx)
}

// Token implements api.Credentials.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// User returns the current identity, nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports token presence.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// ExpiresAt parses the token claims without verifying the signature (the
// server is the verifier) and returns the expiry for display. The zero time
// means no parseable expiry; the token is still used as-is.
func (s *Session) ExpiresAt() time.Time {
	token, ok := s.Token()
	if !ok {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
