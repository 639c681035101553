package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written in-memory fakes implementing the repository interfaces.
// The service doesn't know or care which implementation it gets — that's
// the point of depending on the interface.

type mockSessionRepo struct {
	sessions    map[int64]*model.Session
	nextID      int64
	updateCalls int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[int64]*model.Session)}
}

func (m *mockSessionRepo) CreateSession(_ context.Context, session *model.Session) error {
	m.nextID++
	session.ID = m.nextID
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	stored := cloneSession(session)
	m.sessions[session.ID] = stored
	return nil
}

func (m *mockSessionRepo) GetSessionByID(_ context.Context, id int64) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	return cloneSession(s), nil
}

func (m *mockSessionRepo) ListSessions(_ context.Context) ([]model.Session, error) {
	out := []model.Session{}
	for _, s := range m.sessions {
		out = append(out, *cloneSession(s))
	}
	return out, nil
}

func (m *mockSessionRepo) UpdateSession(_ context.Context, session *model.Session) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return apperror.NotFound("session", session.ID)
	}
	m.updateCalls++
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *mockSessionRepo) DeleteSession(_ context.Context, id int64) error {
	if _, ok := m.sessions[id]; !ok {
		return apperror.NotFound("session", id)
	}
	delete(m.sessions, id)
	return nil
}

// cloneSession copies a session including its participant slice, so mock
// storage can never be mutated through a caller's pointer.
func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.Users = make([]int64, len(s.Users))
	copy(c.Users, s.Users)
	return &c
}

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.ValidationFailed("email", "email is already taken")
		}
	}
	m.nextID++
	user.ID = m.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSessionService(t *testing.T) (*SessionService, *mockSessionRepo, *mockUserRepo) {
	t.Helper()
	sessions := newMockSessionRepo()
	users := newMockUserRepo()
	svc := NewSessionService(sessions, users, testLogger())
	return svc, sessions, users
}

func seedSession(t *testing.T, svc *SessionService, participants ...int64) *model.Session {
	t.Helper()
	session, err := svc.Create(context.Background(), "Morning Flow", time.Now().Add(24*time.Hour), "A gentle morning class", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	session.Users = append(session.Users, participants...)
	if err := svc.sessions.UpdateSession(context.Background(), session); err != nil {
		t.Fatalf("seeding participants: %v", err)
	}
	return session
}

func seedUser(t *testing.T, users *mockUserRepo, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FirstName: "Test", LastName: "User", Password: "x"}
	if err := users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

// =========================================================================
// CREATE / UPDATE / DELETE TESTS
// =========================================================================

func TestSessionCreate_Valid(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	teacherID := int64(1)
	session, err := svc.Create(context.Background(), "  Evening Stretch  ", time.Now(), "Wind down", &teacherID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if session.ID == 0 {
		t.Error("Create() did not assign an ID")
	}
	if session.Name != "Evening Stretch" {
		t.Errorf("Name = %q, whitespace should be trimmed", session.Name)
	}
	if session.TeacherID == nil || *session.TeacherID != 1 {
		t.Error("Create() lost the teacher reference")
	}
	if session.Users == nil || len(session.Users) != 0 {
		t.Error("a new session should start with an empty participant set")
	}
}

func TestSessionCreate_Validation(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	longDescription := make([]byte, MaxDescriptionLength+1)
	for i := range longDescription {
		longDescription[i] = 'x'
	}

	tests := []struct {
		name        string
		sessionName string
		date        time.Time
		description string
	}{
		{"empty name", "", time.Now(), "desc"},
		{"zero date", "Flow", time.Time{}, "desc"},
		{"empty description", "Flow", time.Now(), ""},
		{"description too long", "Flow", time.Now(), string(longDescription)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.sessionName, tt.date, tt.description, nil)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want a validation error", err)
			}
		})
	}
}

func TestSessionCreate_AccentedNameWithinLimit(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	// 50 characters but 100 bytes — the limit counts characters.
	name := strings.Repeat("é", MaxSessionNameLength)
	session, err := svc.Create(context.Background(), name, time.Now(), "a description", nil)
	if err != nil {
		t.Fatalf("Create() with an accented 50-character name: error = %v", err)
	}
	if session.Name != name {
		t.Errorf("Name = %q, want it stored unchanged", session.Name)
	}
}

func TestSessionUpdate_PreservesParticipants(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	session := seedSession(t, svc, 7, 9)

	updated, err := svc.Update(context.Background(), session.ID, "Renamed", session.Date, "New description", nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", updated.Name)
	}
	if len(updated.Users) != 2 {
		t.Errorf("Update() must not touch the participant set, got %v", updated.Users)
	}
}

func TestSessionUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	_, err := svc.Update(context.Background(), 404, "Name", time.Now(), "desc", nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestSessionDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	if err := svc.Delete(context.Background(), 404); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want not found", err)
	}
}

// =========================================================================
// PARTICIPATION TESTS
// =========================================================================

func TestParticipate_AddsUser(t *testing.T) {
	svc, sessions, users := newTestSessionService(t)
	session := seedSession(t, svc)
	user := seedUser(t, users, "alice@example.com")

	if err := svc.Participate(context.Background(), session.ID, user.ID); err != nil {
		t.Fatalf("Participate() error = %v", err)
	}

	stored, _ := sessions.GetSessionByID(context.Background(), session.ID)
	if !stored.HasParticipant(user.ID) {
		t.Errorf("participant set = %v, want it to contain %d", stored.Users, user.ID)
	}
}

func TestParticipate_ThenUnparticipate_RestoresSet(t *testing.T) {
	svc, sessions, users := newTestSessionService(t)
	session := seedSession(t, svc, 42) // a pre-existing participant
	user := seedUser(t, users, "alice@example.com")

	if err := svc.Participate(context.Background(), session.ID, user.ID); err != nil {
		t.Fatalf("Participate() error = %v", err)
	}
	if err := svc.Unparticipate(context.Background(), session.ID, user.ID); err != nil {
		t.Fatalf("Unparticipate() error = %v", err)
	}

	stored, _ := sessions.GetSessionByID(context.Background(), session.ID)
	if len(stored.Users) != 1 || stored.Users[0] != 42 {
		t.Errorf("participant set = %v, want the original [42]", stored.Users)
	}
}

func TestParticipate_SessionNotFound(t *testing.T) {
	svc, _, users := newTestSessionService(t)
	user := seedUser(t, users, "alice@example.com")

	err := svc.Participate(context.Background(), 404, user.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Participate() error = %v, want not found", err)
	}
}

func TestParticipate_UserNotFound(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	session := seedSession(t, svc)

	err := svc.Participate(context.Background(), session.ID, 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Participate() error = %v, want not found", err)
	}
}

func TestParticipate_Twice(t *testing.T) {
	svc, sessions, users := newTestSessionService(t)
	session := seedSession(t, svc)
	user := seedUser(t, users, "alice@example.com")

	if err := svc.Participate(context.Background(), session.ID, user.ID); err != nil {
		t.Fatalf("first Participate() error = %v", err)
	}

	err := svc.Participate(context.Background(), session.ID, user.ID)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("second Participate() error = %v, want a validation error", err)
	}

	// The set must be unchanged from after the first call.
	stored, _ := sessions.GetSessionByID(context.Background(), session.ID)
	if len(stored.Users) != 1 {
		t.Errorf("participant set = %v, want exactly one entry", stored.Users)
	}
}

func TestUnparticipate_NotAParticipant(t *testing.T) {
	svc, sessions, users := newTestSessionService(t)
	session := seedSession(t, svc, 42)
	user := seedUser(t, users, "alice@example.com")

	updatesBefore := sessions.updateCalls

	err := svc.Unparticipate(context.Background(), session.ID, user.ID)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Unparticipate() error = %v, want a validation error", err)
	}

	// The session must be left unmodified — no write happened.
	if sessions.updateCalls != updatesBefore {
		t.Error("Unparticipate() must not persist anything on a validation failure")
	}
	stored, _ := sessions.GetSessionByID(context.Background(), session.ID)
	if len(stored.Users) != 1 || stored.Users[0] != 42 {
		t.Errorf("participant set = %v, want the untouched [42]", stored.Users)
	}
}

func TestUnparticipate_SessionNotFound(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	err := svc.Unparticipate(context.Background(), 404, 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Unparticipate() error = %v, want not found", err)
	}
}
