package users

import "time"

// User represents a registered account. PasswordHash holds a bcrypt hash and is
// never serialized to clients.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
