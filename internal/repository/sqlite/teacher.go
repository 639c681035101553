package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

var _ repository.TeacherRepository = (*DB)(nil)

// List returns all teachers ordered by last name.
func (db *DB) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, first_name, last_name, created_at, updated_at
		 FROM teachers ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := []model.Teacher{}
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing teachers: %w", err)
	}

	return teachers, nil
}

// GetByID retrieves a teacher by ID.
// Returns apperror.ErrNotFound if no teacher exists with that ID.
func (db *DB) GetTeacherByID(ctx context.Context, id int64) (*model.Teacher, error) {
	var t model.Teacher

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, created_at, updated_at
		 FROM teachers WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("teacher", id)
		}
		return nil, fmt.Errorf("sqlite: getting teacher %d: %w", id, err)
	}

	return &t, nil
}
