package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

// Validation constants for session input.
const (
	MaxSessionNameLength = 50
	MaxDescriptionLength = 2500
)

// SessionService handles session CRUD and the participation toggle.
//
// Participation mutates the session's in-memory participant set and writes
// the whole entity back. Nothing here serialises concurrent toggles on the
// same session beyond the repository's transaction — last write wins at the
// storage layer.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService. It takes the user
// repository as well because Participate must confirm the user exists.
func NewSessionService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Create validates and saves a new session.
func (s *SessionService) Create(ctx context.Context, name string, date time.Time, description string, teacherID *int64) (*model.Session, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if err := validateSession(name, date, description); err != nil {
		return nil, err
	}

	session := &model.Session{
		Name:        name,
		Date:        date,
		Description: description,
		TeacherID:   teacherID,
		Users:       []int64{},
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to create session",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session created",
		slog.Int64("id", session.ID),
		slog.String("name", session.Name),
	)

	return session, nil
}

// GetByID retrieves a session by ID, participants included.
// Returns apperror.ErrNotFound if the session doesn't exist.
func (s *SessionService) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	return s.sessions.GetSessionByID(ctx, id)
}

// List returns all sessions.
func (s *SessionService) List(ctx context.Context) ([]model.Session, error) {
	return s.sessions.ListSessions(ctx)
}

// Update replaces a session's fields, fetch-then-update style: the existing
// entity is loaded first (NotFound surfaces here), the new values are
// applied in memory, and the whole entity — participant set untouched — is
// written back.
func (s *SessionService) Update(ctx context.Context, id int64, name string, date time.Time, description string, teacherID *int64) (*model.Session, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if err := validateSession(name, date, description); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Name = name
	session.Date = date
	session.Description = description
	session.TeacherID = teacherID

	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		s.logger.Error("failed to update session",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.logger.Info("session updated",
		slog.Int64("id", session.ID),
		slog.String("name", session.Name),
	)

	return session, nil
}

// Delete removes a session by ID.
// Returns apperror.ErrNotFound if the session doesn't exist.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		return err
	}

	s.logger.Info("session deleted", slog.Int64("id", id))
	return nil
}

// Participate adds a user to a session's participant set.
//
// Both the session and the user must exist (NotFound otherwise). A user
// already in the set is a Validation error and leaves the set unchanged.
func (s *SessionService) Participate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if session.HasParticipant(user.ID) {
		return apperror.ValidationFailed("userId", "user already participates in this session")
	}

	session.Users = append(session.Users, user.ID)

	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		s.logger.Error("failed to save participation",
			slog.Int64("sessionId", sessionID),
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("saving participation: %w", err)
	}

	s.logger.Info("user joined session",
		slog.Int64("sessionId", sessionID),
		slog.Int64("userId", userID),
	)

	return nil
}

// Unparticipate removes a user from a session's participant set.
//
// The session must exist (NotFound otherwise). A user not in the set is a
// Validation error. All entries matching the user id are removed.
func (s *SessionService) Unparticipate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.HasParticipant(userID) {
		return apperror.ValidationFailed("userId", "user does not participate in this session")
	}

	kept := session.Users[:0]
	for _, id := range session.Users {
		if id != userID {
			kept = append(kept, id)
		}
	}
	session.Users = kept

	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		s.logger.Error("failed to save participation",
			slog.Int64("sessionId", sessionID),
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("saving participation: %w", err)
	}

	s.logger.Info("user left session",
		slog.Int64("sessionId", sessionID),
		slog.Int64("userId", userID),
	)

	return nil
}

// validateSession checks session input. Lengths are counted in runes so
// accented names fit the same limits as ASCII ones.
func validateSession(name string, date time.Time, description string) error {
	if name == "" {
		return apperror.ValidationFailed("name", "session name is required")
	}
	if utf8.RuneCountInString(name) > MaxSessionNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("session name must be %d characters or less", MaxSessionNameLength))
	}
	if date.IsZero() {
		return apperror.ValidationFailed("date", "session date is required")
	}
	if description == "" {
		return apperror.ValidationFailed("description", "session description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("session description must be %d characters or less", MaxDescriptionLength))
	}
	return nil
}
