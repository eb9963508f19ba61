package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the SQLite database at dsn. An in-memory database is pinned
// to a single connection so every query sees the same schema.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users       { return &usersRepo{q: s.q} }
func (s *Store) Threads() store.Threads   { return &threadsRepo{q: s.q} }
func (s *Store) Comments() store.Comments { return &commentsRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// checkColumns maps named CHECK constraints to the column they guard.
var checkColumns = map[string]string{
	"usuarios_username_check":     "username",
	"usuarios_email_check":        "email",
	"hilos_titulo_check":          "titulo",
	"hilos_contenido_check":       "contenido",
	"comentarios_contenido_check": "contenido",
}

// mapConstraintViolation turns UNIQUE failures on usuarios and named CHECK
// failures into store errors. Anything else passes through unchanged.
func mapConstraintViolation(err error) error {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return err
	}

	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_CHECK:
	default:
		return err
	}

	msg := serr.Error()
	switch {
	case strings.Contains(msg, "usuarios.username"):
		return store.ErrDuplicateUsername
	case strings.Contains(msg, "usuarios.email"):
		return store.ErrDuplicateEmail
	case strings.Contains(msg, "UNIQUE"):
		return store.ErrAlreadyExists
	}

	if _, name, ok := strings.Cut(msg, "CHECK constraint failed: "); ok {
		name, _, _ = strings.Cut(strings.TrimSpace(name), " ")
		name = strings.TrimRight(name, ")")
		if col, known := checkColumns[name]; known {
			return &store.CheckViolationError{Column: col}
		}
	}
	return err
}

func mapUser(row gen.Usuario) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Rol,
		CreatedAt:    row.FechaRegistro.UTC(),
	}
}

func mapThread(row gen.Hilo) domain.Thread {
	return domain.Thread{
		ID:        row.ID,
		Title:     row.Titulo,
		Body:      row.Contenido,
		AuthorID:  row.UsuarioID,
		CreatedAt: row.FechaCreacion.UTC(),
	}
}

func mapThreadSummary(row gen.ListHilosRow) domain.ThreadSummary {
	return domain.ThreadSummary{
		Thread: domain.Thread{
			ID:        row.ID,
			Title:     row.Titulo,
			Body:      row.Contenido,
			AuthorID:  row.UsuarioID,
			CreatedAt: row.FechaCreacion.UTC(),
		},
		AuthorUsername: row.Username,
		CommentCount:   row.NumComentarios,
	}
}

func mapCommentView(row gen.ListComentariosByHiloRow) domain.CommentView {
	return domain.CommentView{
		Comment: domain.Comment{
			ID:        row.ID,
			Body:      row.Contenido,
			AuthorID:  row.UsuarioID,
			ThreadID:  row.HiloID,
			CreatedAt: row.FechaCreacion.UTC(),
		},
		AuthorUsername: row.Username,
	}
}

func mapSession(row gen.Sesion) domain.Session {
	return domain.Session{
		ID:        row.ID,
		UserID:    row.UsuarioID,
		UserAgent: row.UserAgent,
		IPAddress: row.IpAddress,
		ExpiresAt: row.ExpiresAt.UTC(),
		CreatedAt: row.CreatedAt.UTC(),
	}
}
