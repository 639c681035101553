package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
)

func TestCreateSession_WithParticipants(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "one@studio.com")
	u2 := createTestUser(t, db, "two@studio.com")

	s := createTestSession(t, db, "Morning Flow", []int64{u2.ID, u1.ID})
	if s.ID == 0 {
		t.Error("expected a generated ID")
	}

	got, err := db.GetSessionByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	// Participants come back ordered by user id.
	if len(got.Users) != 2 || got.Users[0] != u1.ID || got.Users[1] != u2.ID {
		t.Errorf("participants = %v, want [%d %d]", got.Users, u1.ID, u2.ID)
	}
	if got.TeacherID == nil || *got.TeacherID != 1 {
		t.Errorf("TeacherID = %v, want 1", got.TeacherID)
	}
}

func TestCreateSession_WithoutTeacher(t *testing.T) {
	db := newTestDB(t)

	s := &model.Session{Name: "Solo Practice", Date: testDate(), Description: "no teacher"}
	if err := db.CreateSession(context.Background(), s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := db.GetSessionByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got.TeacherID != nil {
		t.Errorf("TeacherID = %v, want nil", got.TeacherID)
	}
	if got.Users == nil || len(got.Users) != 0 {
		t.Errorf("Users = %v, want an empty non-nil slice", got.Users)
	}
}

func TestGetSessionByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetSessionByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListSessions(t *testing.T) {
	db := newTestDB(t)
	createTestSession(t, db, "First", nil)
	createTestSession(t, db, "Second", nil)

	sessions, err := db.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	// Newest first.
	if sessions[0].Name != "Second" {
		t.Errorf("sessions[0].Name = %q, want Second", sessions[0].Name)
	}
}

func TestUpdateSession_RewritesParticipants(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "one@studio.com")
	u2 := createTestUser(t, db, "two@studio.com")
	s := createTestSession(t, db, "Morning Flow", []int64{u1.ID})

	s.Name = "Evening Flow"
	s.Users = []int64{u2.ID}
	if err := db.UpdateSession(context.Background(), s); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	got, err := db.GetSessionByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got.Name != "Evening Flow" {
		t.Errorf("Name = %q, want Evening Flow", got.Name)
	}
	if len(got.Users) != 1 || got.Users[0] != u2.ID {
		t.Errorf("participants = %v, want [%d]", got.Users, u2.ID)
	}
}

func TestUpdateSession_NotFound(t *testing.T) {
	db := newTestDB(t)

	s := &model.Session{ID: 999, Name: "Ghost", Date: testDate()}
	err := db.UpdateSession(context.Background(), s)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSession_CascadesParticipants(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "one@studio.com")
	s := createTestSession(t, db, "Morning Flow", []int64{u.ID})

	if err := db.DeleteSession(context.Background(), s.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	_, err := db.GetSessionByID(context.Background(), s.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	var count int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM session_participants WHERE session_id = ?`, s.ID,
	).Scan(&count); err != nil {
		t.Fatalf("counting participants: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d orphaned participant rows, want 0", count)
	}
}

func TestDeleteSession_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteSession(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
