package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	return r.q.CreateSesion(ctx, gen.CreateSesionParams{
		ID:        s.ID,
		UsuarioID: s.UserID,
		UserAgent: s.UserAgent,
		IpAddress: s.IPAddress,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
	})
}

func (r *sessionsRepo) GetActiveSession(ctx context.Context, id string, now time.Time) (domain.Session, error) {
	row, err := r.q.GetActiveSesion(ctx, gen.GetActiveSesionParams{
		ID:        id,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return r.q.DeleteSesion(ctx, id)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSesiones(ctx, now.UTC())
}
