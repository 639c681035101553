// Package service contains the business logic layer of the application.
//
// The layering mirrors the request path:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, enforces rules, orchestrates
//	Repository (data)  → reads/writes the database
//
// Services accept primitives and models, never HTTP types, and return domain
// errors from the apperror package — the handler translates those to status
// codes. Each service takes repository interfaces (not the concrete sqlite
// type), so tests inject in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/auth"
	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

// Validation constants for registration input.
const (
	MaxEmailLength    = 50
	MaxNameLength     = 20
	MinPasswordLength = 6
	MaxPasswordLength = 40
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates the input, hashes the password, and creates a new
// non-admin account.
//
// An already-registered email yields a Validation error (the API contract is
// 400, not 409, matching the client's expectations). The repository's UNIQUE
// constraint backs the lookup, so two concurrent registrations of the same
// email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, email, firstName, lastName, password string) error {
	email = strings.TrimSpace(email)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if err := validateRegistration(email, firstName, lastName, password); err != nil {
		return err
	}

	// Fast path for the common duplicate case; the UNIQUE constraint is the
	// authoritative check.
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return apperror.ValidationFailed("email", "email is already taken")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("checking email availability: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  hash,
		Admin:     false,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// Login checks the credentials and issues a bearer token.
//
// Unknown email and wrong password both come back as the same Unauthorized
// error — the response must not reveal which half was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", apperror.Unauthorized("bad credentials")
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		return nil, "", apperror.Unauthorized("bad credentials")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error("failed to issue token",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.Int64("id", user.ID))

	return user, token, nil
}

// validateRegistration checks the registration input. Lengths are counted in
// runes, not bytes — "Hélène" is six characters, not seven.
func validateRegistration(email, firstName, lastName, password string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.ValidationFailed("email", "email is not valid")
	}
	if firstName == "" {
		return apperror.ValidationFailed("firstName", "first name is required")
	}
	if utf8.RuneCountInString(firstName) > MaxNameLength {
		return apperror.ValidationFailed("firstName",
			fmt.Sprintf("first name must be %d characters or less", MaxNameLength))
	}
	if lastName == "" {
		return apperror.ValidationFailed("lastName", "last name is required")
	}
	if utf8.RuneCountInString(lastName) > MaxNameLength {
		return apperror.ValidationFailed("lastName",
			fmt.Sprintf("last name must be %d characters or less", MaxNameLength))
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d characters or less", MaxPasswordLength))
	}
	return nil
}
