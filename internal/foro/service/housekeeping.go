package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/store"
)

// HousekeepingService removes expired session rows. It runs on demand; the
// app calls Cleanup once at startup.
type HousekeepingService struct {
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

// Cleanup deletes sessions that have expired and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) (int64, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now.UTC())
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return 0, err
	}

	s.Logger.Info("housekeeping cleanup completed", "expired_sessions", n)
	return n, nil
}
