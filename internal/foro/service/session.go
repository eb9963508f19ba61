package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store"
	"github.com/aussiebroadwan/foro/pkg/cryptox"
	"github.com/aussiebroadwan/foro/pkg/jwtx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
)

const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionService issues and resolves login sessions. The browser holds a
// signed token naming a random session secret; the store keeps only the
// secret's fingerprint.
type SessionService struct {
	Store  store.Store
	Signer *jwtx.HMAC
	TTL    time.Duration
	Now    func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create starts a session for u and returns the token to hand to the client.
func (s *SessionService) Create(ctx context.Context, u domain.User, userAgent, ipAddress string) (string, time.Time, error) {
	secret, err := cryptox.NewSessionSecret()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session secret: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl())

	if err := s.Store.Sessions().CreateSession(ctx, domain.Session{
		ID:        secret.Fingerprint,
		UserID:    u.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	token, err := s.Signer.Sign(u.ID, secret.Secret, now, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}

	slogx.FromContext(ctx).Info("session created", slog.Int64("user_id", u.ID))
	return token, expiresAt, nil
}

// Resolve returns the user behind token, or nil when the token is invalid,
// expired or revoked. Only store failures are reported as errors.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.Signer.Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("rejected session token", slog.Any("error", err))
		return nil, nil
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil
	}

	sess, err := s.Store.Sessions().GetActiveSession(ctx, cryptox.Fingerprint(claims.SessionID), s.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != userID {
		return nil, nil
	}

	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &u, nil
}

// Destroy revokes the session named by token. Invalid tokens are ignored.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.Store.Sessions().DeleteSession(ctx, cryptox.Fingerprint(claims.SessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slogx.FromContext(ctx).Info("session destroyed", slog.String("user_id", claims.Subject))
	return nil
}
