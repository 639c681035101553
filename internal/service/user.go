package service

import (
	"context"
	"log/slog"

	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

// UserService handles user lookup and account removal. The "only the owner
// may delete" rule lives in the handler — it compares the authenticated
// principal against the record this service fetched, keeping the service
// free of authentication concerns.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// GetByID retrieves a user by ID.
// Returns apperror.ErrNotFound if the user doesn't exist.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Delete removes a user account.
// Returns apperror.ErrNotFound if the user doesn't exist.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Int64("id", id))
	return nil
}
