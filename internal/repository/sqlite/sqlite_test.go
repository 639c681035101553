package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sroche/yogabook/internal/model"
)

// newTestDB opens a fresh database in a per-test temp dir. A file, not
// ":memory:" — the sql.DB pool can open several connections, and each
// in-memory connection would see its own empty database.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	u := &model.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "$2a$04$fakehashfortestsonly",
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}

func testDate() time.Time {
	return time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC)
}

func createTestSession(t *testing.T, db *DB, name string, users []int64) *model.Session {
	t.Helper()

	teacherID := int64(1) // seeded roster guarantees teacher 1 exists
	s := &model.Session{
		Name:        name,
		Date:        testDate(),
		Description: "a test session",
		TeacherID:   &teacherID,
		Users:       users,
	}
	if err := db.CreateSession(context.Background(), s); err != nil {
		t.Fatalf("creating session %s: %v", name, err)
	}
	return s
}
