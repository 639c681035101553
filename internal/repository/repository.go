// Package repository defines the persistence interfaces consumed by the
// service layer. The SQLite implementation lives in repository/sqlite;
// services depend only on these interfaces so tests can inject mocks.
package repository

import (
	"context"

	"github.com/sroche/yogabook/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type TeacherRepository interface {
	ListTeachers(ctx context.Context) ([]model.Teacher, error)
	GetTeacherByID(ctx context.Context, id int64) (*model.Teacher, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByID(ctx context.Context, id int64) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context, id int64) error
}
