package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user and fills in the generated ID and timestamps.
// A duplicate email surfaces as a Validation error — the UNIQUE constraint
// is the authoritative check, the service-level lookup only gives a nicer
// fast path.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (email, first_name, last_name, password, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Password,
		user.Admin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.ValidationFailed("email", "email is already taken")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user insert id: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their numeric ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, first_name, last_name, password, admin, created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by their email (the login identifier).
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, first_name, last_name, password, admin, created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Password,
		&u.Admin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found (%v)", arg),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// Delete removes a user by ID. Participation rows go with it via the
// ON DELETE CASCADE on session_participants.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
