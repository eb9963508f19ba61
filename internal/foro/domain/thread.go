package domain

import "time"

type Thread struct {
	ID        int64
	Title     string
	Body      string
	AuthorID  int64
	CreatedAt time.Time
}

// ThreadSummary is a row of the thread listing.
type ThreadSummary struct {
	Thread
	AuthorUsername string
	CommentCount   int64
}

// ThreadDetail is a thread with its comments in chronological order.
type ThreadDetail struct {
	Thread
	AuthorUsername string
	Comments       []CommentView
}
