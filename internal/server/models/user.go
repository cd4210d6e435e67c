// Package models defines the documents persisted by the store.
package models

import "time"

// User is a registered account. It is immutable except for deletion.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
