package domain

import "time"

// User models a registered account. Users authenticate with their email.
//
// RatingCount is derived from the ratings store on read and never persisted.
type User struct {
	ID           string
	Email        string
	Username     *string
	PasswordHash string
	RatingCount  int64
	CreatedAt    time.Time
	LastLogin    *time.Time
}
