package domain

import "time"

// DefaultRole is assigned at registration. Roles are stored but not enforced.
const DefaultRole = "usuario"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string
	Role         string
	CreatedAt    time.Time
}
