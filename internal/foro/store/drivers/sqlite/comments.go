package sqlite

import (
	"context"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite/gen"
)

type commentsRepo struct {
	q *gen.Queries
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	c.CreatedAt = c.CreatedAt.UTC()

	id, err := r.q.CreateComentario(ctx, gen.CreateComentarioParams{
		Contenido:     c.Body,
		FechaCreacion: c.CreatedAt,
		UsuarioID:     c.AuthorID,
		HiloID:        c.ThreadID,
	})
	if err != nil {
		return domain.Comment{}, mapConstraintViolation(err)
	}

	c.ID = id
	return c, nil
}

func (r *commentsRepo) ListCommentsByThread(ctx context.Context, threadID int64) ([]domain.CommentView, error) {
	rows, err := r.q.ListComentariosByHilo(ctx, threadID)
	if err != nil {
		return nil, err
	}

	comments := make([]domain.CommentView, len(rows))
	for i, row := range rows {
		comments[i] = mapCommentView(row)
	}
	return comments, nil
}
