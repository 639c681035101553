package model

import "time"

// Teacher represents a session teacher.
// Teachers are read-only through the API — rows are seeded by the database
// migration, there is no create/update/delete endpoint.
type Teacher struct {
	ID        int64     `json:"id"        db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName"  db:"last_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
