package sqlite

import (
	"context"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row, err := r.q.GetUsuarioByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUsuarioByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.q.CountUsuariosByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.q.CountUsuariosByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Role == "" {
		u.Role = domain.DefaultRole
	}
	u.CreatedAt = u.CreatedAt.UTC()

	id, err := r.q.CreateUsuario(ctx, gen.CreateUsuarioParams{
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Rol:           u.Role,
		FechaRegistro: u.CreatedAt,
	})
	if err != nil {
		return domain.User{}, mapConstraintViolation(err)
	}

	u.ID = id
	return u, nil
}
