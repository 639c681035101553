// Package dto defines the transfer objects of the HTTP API and the explicit
// mapping functions from persistence models to them.
//
// Mapping is deliberately plain Go: pure functions, no reflection, no codegen.
// The nil rules are part of the contract — a nil model maps to a nil DTO, a
// nil teacher reference maps to a null teacher_id, and participant lists are
// copied, never aliased, so a handler can't mutate a model through its DTO.
package dto

import (
	"time"

	"github.com/sroche/yogabook/internal/model"
)

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionRequest is the payload of POST /api/session and PUT /api/session/{id}.
type SessionRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	TeacherID   *int64    `json:"teacher_id"`
	Description string    `json:"description"`
}

// MessageResponse is the generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by a successful login. Type is always "Bearer" —
// it tells the client how to send the token back.
type LoginResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

// UserResponse is the public view of a user. No password hash, ever.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeacherResponse is the public view of a teacher.
type TeacherResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionResponse is the public view of a session. TeacherID serialises as
// null when the session has no teacher; Users always serialises as an array,
// never null.
type SessionResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	TeacherID   *int64    `json:"teacher_id"`
	Description string    `json:"description"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromUser maps a user model to its response DTO. Nil in, nil out.
func FromUser(u *model.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromTeacher maps a teacher model to its response DTO. Nil in, nil out.
func FromTeacher(t *model.Teacher) *TeacherResponse {
	if t == nil {
		return nil
	}
	return &TeacherResponse{
		ID:        t.ID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromTeachers maps a teacher slice. The result has the same length as the
// input, always non-nil.
func FromTeachers(teachers []model.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, len(teachers))
	for i := range teachers {
		out[i] = *FromTeacher(&teachers[i])
	}
	return out
}

// FromSession maps a session model to its response DTO. Nil in, nil out.
// A nil teacher reference stays nil (→ JSON null); the participant slice is
// copied and an absent one becomes an empty array.
func FromSession(s *model.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	var teacherID *int64
	if s.TeacherID != nil {
		id := *s.TeacherID
		teacherID = &id
	}

	users := make([]int64, len(s.Users))
	copy(users, s.Users)

	return &SessionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Date:        s.Date,
		TeacherID:   teacherID,
		Description: s.Description,
		Users:       users,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromSessions maps a session slice. The result has the same length as the
// input, always non-nil.
func FromSessions(sessions []model.Session) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = *FromSession(&sessions[i])
	}
	return out
}
