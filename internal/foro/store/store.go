package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// Unique constraint violations on usuarios. Both match ErrAlreadyExists.
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)

	ErrInvalidValue = errors.New("store: invalid value")
)

// CheckViolationError reports a row rejected by a CHECK constraint on
// Column. It matches ErrInvalidValue.
type CheckViolationError struct {
	Column string
}

func (e *CheckViolationError) Error() string {
	return "store: invalid value for " + e.Column
}

func (e *CheckViolationError) Is(target error) bool { return target == ErrInvalidValue }

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per table so transactional callers get the same API
// through Tx.
type Store interface {
	Users() Users
	Threads() Threads
	Comments() Comments
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername matches the username exactly.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists and EmailExists back the registration pre-check.
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// CreateUser inserts u and returns it with its assigned ID. It fails with
	// ErrDuplicateUsername or ErrDuplicateEmail on a unique violation.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type Threads interface {
	CreateThread(ctx context.Context, t domain.Thread) (domain.Thread, error)

	GetThreadByID(ctx context.Context, id int64) (domain.Thread, error)

	// ListThreads returns every thread, newest first.
	ListThreads(ctx context.Context) ([]domain.ThreadSummary, error)
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)

	// ListCommentsByThread returns a thread's comments, oldest first.
	ListCommentsByThread(ctx context.Context, threadID int64) ([]domain.CommentView, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetActiveSession returns the session only if it has not expired at now.
	GetActiveSession(ctx context.Context, id string, now time.Time) (domain.Session, error)

	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions that expired before now and
	// reports how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
