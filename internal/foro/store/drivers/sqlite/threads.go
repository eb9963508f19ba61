package sqlite

import (
	"context"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite/gen"
)

type threadsRepo struct {
	q *gen.Queries
}

func (r *threadsRepo) CreateThread(ctx context.Context, t domain.Thread) (domain.Thread, error) {
	t.CreatedAt = t.CreatedAt.UTC()

	id, err := r.q.CreateHilo(ctx, gen.CreateHiloParams{
		Titulo:        t.Title,
		Contenido:     t.Body,
		FechaCreacion: t.CreatedAt,
		UsuarioID:     t.AuthorID,
	})
	if err != nil {
		return domain.Thread{}, mapConstraintViolation(err)
	}

	t.ID = id
	return t, nil
}

func (r *threadsRepo) GetThreadByID(ctx context.Context, id int64) (domain.Thread, error) {
	row, err := r.q.GetHiloByID(ctx, id)
	if err != nil {
		return domain.Thread{}, mapNotFound(err)
	}
	return mapThread(row), nil
}

func (r *threadsRepo) ListThreads(ctx context.Context) ([]domain.ThreadSummary, error) {
	rows, err := r.q.ListHilos(ctx)
	if err != nil {
		return nil, err
	}

	threads := make([]domain.ThreadSummary, len(rows))
	for i, row := range rows {
		threads[i] = mapThreadSummary(row)
	}
	return threads, nil
}
