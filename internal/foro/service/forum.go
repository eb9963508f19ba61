package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/store"
	"github.com/aussiebroadwan/foro/pkg/cryptox"
	"github.com/aussiebroadwan/foro/pkg/slogx"
	"github.com/aussiebroadwan/foro/pkg/validx"
)

const (
	MsgUsernameTaken      = "El nombre de usuario ya está en uso."
	MsgEmailTaken         = "El email ya está registrado."
	MsgInvalidCredentials = "Usuario o contraseña incorrectos."
	MsgEmptyComment       = "El comentario no puede estar vacío."
	MsgInvalidText        = "Contiene caracteres no permitidos."
)

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=1,max=64,nocontrol"`
	Email           string `form:"email" validate:"required,email,max=120,nocontrol"`
	Password        string `form:"password" validate:"required,min=6,max=128"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

type ThreadInput struct {
	Title string `form:"titulo" validate:"required,max=140,nocontrol"`
	Body  string `form:"contenido" validate:"required,nocontrol"`
}

// ForumService implements the forum's business operations. The acting user
// is always passed in explicitly; nil means anonymous.
type ForumService struct {
	Store   store.Store
	Metrics *Metrics
	Now     func() time.Time
}

func (s *ForumService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Register creates a user after validating the form and checking that the
// username and email are free. Every failing field is reported at once. The
// UNIQUE constraints remain the source of truth when two registrations race.
func (s *ForumService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := map[string]string{}
	if err := validateInput(in); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return domain.User{}, err
		}
		maps.Copy(fields, verr.Fields)
	}

	if _, bad := fields["username"]; !bad {
		taken, err := s.Store.Users().UsernameExists(ctx, in.Username)
		if err != nil {
			return domain.User{}, fmt.Errorf("check username: %w", err)
		}
		if taken {
			fields["username"] = MsgUsernameTaken
		}
	}

	if _, bad := fields["email"]; !bad {
		taken, err := s.Store.Users().EmailExists(ctx, in.Email)
		if err != nil {
			return domain.User{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			fields["email"] = MsgEmailTaken
		}
	}

	if len(fields) > 0 {
		l.Info("registration rejected", slog.String("username", in.Username), slog.Int("fields", len(fields)))
		return domain.User{}, &ValidationError{Fields: fields}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
		CreatedAt:    s.now(),
	})
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		l.Warn("registration lost username race", slog.String("username", in.Username))
		return domain.User{}, newValidationError("username", MsgUsernameTaken)
	case errors.Is(err, store.ErrDuplicateEmail):
		l.Warn("registration lost email race", slog.String("username", in.Username))
		return domain.User{}, newValidationError("email", MsgEmailTaken)
	case errors.Is(err, store.ErrInvalidValue):
		return domain.User{}, checkViolation(err)
	case err != nil:
		l.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.Metrics.registered()
	l.Info("user registered", slog.Int64("user_id", u.ID), slog.String("username", u.Username))
	return u, nil
}

// Authenticate returns the user whose username and password match. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *ForumService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.Metrics.login(false)
		l.Info("login failed", slog.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.Metrics.login(false)
			l.Info("login failed", slog.String("username", username))
			return domain.User{}, ErrInvalidCredentials
		}
		l.Error("password verification error", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return domain.User{}, fmt.Errorf("verify password: %w", err)
	}

	s.Metrics.login(true)
	return u, nil
}

// ListThreads returns every thread, newest first.
func (s *ForumService) ListThreads(ctx context.Context) ([]domain.ThreadSummary, error) {
	threads, err := s.Store.Threads().ListThreads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}

func (s *ForumService) CreateThread(ctx context.Context, currentUser *domain.User, in ThreadInput) (domain.Thread, error) {
	if currentUser == nil {
		return domain.Thread{}, ErrAuthRequired
	}

	in.Title = strings.TrimSpace(in.Title)
	probe := in
	probe.Body = strings.TrimSpace(in.Body)
	if err := validateInput(probe); err != nil {
		return domain.Thread{}, err
	}

	t, err := s.Store.Threads().CreateThread(ctx, domain.Thread{
		Title:     in.Title,
		Body:      in.Body,
		AuthorID:  currentUser.ID,
		CreatedAt: s.now(),
	})
	if errors.Is(err, store.ErrInvalidValue) {
		return domain.Thread{}, checkViolation(err)
	}
	if err != nil {
		return domain.Thread{}, fmt.Errorf("create thread: %w", err)
	}

	s.Metrics.threadCreated()
	slogx.FromContext(ctx).Info("thread created",
		slog.Int64("thread_id", t.ID),
		slog.Int64("user_id", currentUser.ID),
	)
	return t, nil
}

// GetThread returns the thread with its author and comments, oldest comment
// first.
func (s *ForumService) GetThread(ctx context.Context, id int64) (domain.ThreadDetail, error) {
	t, err := s.getThread(ctx, id)
	if err != nil {
		return domain.ThreadDetail{}, err
	}

	author, err := s.Store.Users().GetUserByID(ctx, t.AuthorID)
	if err != nil {
		return domain.ThreadDetail{}, fmt.Errorf("load thread author: %w", err)
	}

	comments, err := s.Store.Comments().ListCommentsByThread(ctx, t.ID)
	if err != nil {
		return domain.ThreadDetail{}, fmt.Errorf("list comments: %w", err)
	}

	return domain.ThreadDetail{
		Thread:         t,
		AuthorUsername: author.Username,
		Comments:       comments,
	}, nil
}

// CreateComment adds body to the thread. The body is stored as submitted but
// must not be blank.
func (s *ForumService) CreateComment(ctx context.Context, currentUser *domain.User, threadID int64, body string) (domain.CommentView, error) {
	if currentUser == nil {
		return domain.CommentView{}, ErrAuthRequired
	}

	t, err := s.getThread(ctx, threadID)
	if err != nil {
		return domain.CommentView{}, err
	}

	if strings.TrimSpace(body) == "" {
		return domain.CommentView{}, newValidationError("contenido", MsgEmptyComment)
	}
	if validx.ContainsControl(body) {
		return domain.CommentView{}, newValidationError("contenido", MsgInvalidText)
	}

	c, err := s.Store.Comments().CreateComment(ctx, domain.Comment{
		Body:      body,
		AuthorID:  currentUser.ID,
		ThreadID:  t.ID,
		CreatedAt: s.now(),
	})
	if errors.Is(err, store.ErrInvalidValue) {
		return domain.CommentView{}, checkViolation(err)
	}
	if err != nil {
		return domain.CommentView{}, fmt.Errorf("create comment: %w", err)
	}

	s.Metrics.commentCreated()
	slogx.FromContext(ctx).Info("comment created",
		slog.Int64("comment_id", c.ID),
		slog.Int64("thread_id", t.ID),
		slog.Int64("user_id", currentUser.ID),
	)
	return domain.CommentView{Comment: c, AuthorUsername: currentUser.Username}, nil
}

func (s *ForumService) getThread(ctx context.Context, id int64) (domain.Thread, error) {
	t, err := s.Store.Threads().GetThreadByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Thread{}, ErrNotFound
	}
	if err != nil {
		return domain.Thread{}, fmt.Errorf("load thread: %w", err)
	}
	return t, nil
}

// validateInput runs the struct's validate tags and converts field failures
// into a ValidationError.
func validateInput(v any) error {
	err := validx.Struct(v)
	if err == nil {
		return nil
	}
	var fe validx.FieldErrors
	if errors.As(err, &fe) {
		return &ValidationError{Fields: fe}
	}
	return err
}

// checkViolation reports a value the database rejected against the form
// field of the same name.
func checkViolation(err error) error {
	field := "contenido"
	var cerr *store.CheckViolationError
	if errors.As(err, &cerr) {
		field = cerr.Column
	}
	return newValidationError(field, MsgInvalidText)
}
