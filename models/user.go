package models

import "time"

// User is a row from users. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
