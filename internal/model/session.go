package model

import "time"

// Session represents a bookable class led by a teacher.
//
// TeacherID is a pointer because the teacher reference is optional — a
// session can exist without one, and the JSON mapping must distinguish
// "no teacher" (null) from teacher id 0.
//
// Users holds the ids of participating users. It is a set in spirit: the
// service layer guarantees a user id appears at most once. Order carries no
// meaning.
type Session struct {
	ID          int64     `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Date        time.Time `json:"date"        db:"date"`
	Description string    `json:"description" db:"description"`
	TeacherID   *int64    `json:"teacher_id"  db:"teacher_id"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// HasParticipant reports whether userID is in the session's participant set.
func (s *Session) HasParticipant(userID int64) bool {
	for _, id := range s.Users {
		if id == userID {
			return true
		}
	}
	return false
}
