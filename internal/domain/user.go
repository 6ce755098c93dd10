package domain

import "time"

// User is the identity record. Name and Email are the preferred source for directory entries.
type User struct {
	ID           UserID
	Name         string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
