package service

import (
	"context"
	"log/slog"

	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

// TeacherService exposes the read-only teacher roster.
type TeacherService struct {
	repo   repository.TeacherRepository
	logger *slog.Logger
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(repo repository.TeacherRepository, logger *slog.Logger) *TeacherService {
	return &TeacherService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

// GetByID retrieves a teacher by ID.
// Returns apperror.ErrNotFound if the teacher doesn't exist.
func (s *TeacherService) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	return s.repo.GetTeacherByID(ctx, id)
}
