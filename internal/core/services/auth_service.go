package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type AuthService struct {
	client ports.AuthClient
	parser *jwt.Parser
	now    func() time.Time
}

func NewAuthService(client ports.AuthClient) *AuthService {
	return &AuthService{
		client: client,
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, store ports.SessionStore, creds ports.Credentials) (*domain.Session, error) {
	token, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.start(store, token, creds.Name)
}

func (s *AuthService) Register(ctx context.Context, store ports.SessionStore, creds ports.Credentials) (*domain.Session, error) {
	token, err := s.client.Register(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return s.start(store, token, creds.Name)
}

func (s *AuthService) Logout(store ports.SessionStore) error {
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current restores the session from the stored token. An expired token is
// removed from the store.
func (s *AuthService) Current(store ports.SessionStore) (*domain.Session, error) {
	token, ok, err := store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}

	session := s.decode(token)
	if session.Expired(s.now()) {
		logging.Log.Infof("session for %q expired at %s", session.Name, session.ExpiresAt.Format(time.RFC3339))
		if err := store.Clear(); err != nil {
			logging.Log.Warnf("failed to clear expired session: %v", err)
		}
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

func (s *AuthService) start(store ports.SessionStore, token, name string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrUnauthenticated)
	}
	if err := store.Set(token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	session := s.decode(token)
	if session.Name == "" {
		session.Name = name
	}
	return session, nil
}

// decode reads the claims without verifying the signature; only the poll
// service holds the key. A token that is not a JWT is kept as an opaque token.
func (s *AuthService) decode(token string) *domain.Session {
	session := &domain.Session{Token: token}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		if !errors.Is(err, jwt.ErrTokenMalformed) {
			logging.Log.Debugf("unreadable token claims: %v", err)
		}
		return session
	}

	session.Name = claims.Subject
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
