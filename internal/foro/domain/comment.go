package domain

import "time"

type Comment struct {
	ID        int64
	Body      string
	AuthorID  int64
	ThreadID  int64
	CreatedAt time.Time
}

// CommentView is a comment joined with its author's username.
type CommentView struct {
	Comment
	AuthorUsername string
}
