package domain

import "time"

// Session is the server-side half of a login. ID is the fingerprint of the
// secret carried in the session cookie.
type Session struct {
	ID        string
	UserID    int64
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}
