// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is unique across the users table — the
// JWT subject claim carries it, and the auth middleware resolves it back to
// this record on every request.
//
// Password holds the bcrypt hash, never the plaintext. The `json:"-"` tag
// guarantees it cannot leak into an API response, even if a handler
// serialises the model directly by mistake.
type User struct {
	ID        int64     `json:"id"        db:"id"`
	Email     string    `json:"email"     db:"email"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName"  db:"last_name"`
	Password  string    `json:"-"         db:"password"` // bcrypt hash
	Admin     bool      `json:"admin"     db:"admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
