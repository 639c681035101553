package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sroche/yogabook/internal/apperror"
	"github.com/sroche/yogabook/internal/model"
	"github.com/sroche/yogabook/internal/repository"
)

var _ repository.SessionRepository = (*DB)(nil)

// CreateSession inserts a new session and its participant rows, filling in
// the generated ID and timestamps.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (name, date, description, teacher_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.Name,
		session.Date,
		session.Description,
		session.TeacherID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}

	session.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading session insert id: %w", err)
	}

	if err := insertParticipants(ctx, tx, session.ID, session.Users); err != nil {
		return err
	}

	return tx.Commit()
}

// GetSessionByID retrieves a session with its participant ids loaded.
// Returns apperror.ErrNotFound if no session exists with that ID.
func (db *DB) GetSessionByID(ctx context.Context, id int64) (*model.Session, error) {
	var s model.Session

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, date, description, teacher_id, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Name, &s.Date, &s.Description, &s.TeacherID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session %d: %w", id, err)
	}

	if s.Users, err = db.participants(ctx, s.ID); err != nil {
		return nil, err
	}

	return &s, nil
}

// ListSessions returns all sessions, newest first, with participants loaded.
func (db *DB) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, date, description, teacher_id, created_at, updated_at
		 FROM sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.Description, &s.TeacherID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing sessions: %w", err)
	}

	for i := range sessions {
		if sessions[i].Users, err = db.participants(ctx, sessions[i].ID); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

// UpdateSession writes the whole entity back: the session fields plus a full
// rewrite of the participant rows, in one transaction.
//
// "Read full entity, mutate in memory, write back whole entity" is the
// mutation discipline here. There is no optimistic locking — concurrent
// updates to the same session are last-write-wins.
// Returns apperror.ErrNotFound if the session row is absent.
func (db *DB) UpdateSession(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET name = ?, date = ?, description = ?, teacher_id = ?, updated_at = ?
		 WHERE id = ?`,
		session.Name,
		session.Date,
		session.Description,
		session.TeacherID,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating session %d: %w", session.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating session %d: %w", session.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("session", session.ID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_participants WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("sqlite: clearing participants of session %d: %w", session.ID, err)
	}

	if err := insertParticipants(ctx, tx, session.ID, session.Users); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSession removes a session; participant rows go via ON DELETE CASCADE.
// Returns apperror.ErrNotFound if no session exists with that ID.
func (db *DB) DeleteSession(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting session %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("session", id)
	}

	return nil
}

// participants loads the participant user ids of a session.
func (db *DB) participants(ctx context.Context, sessionID int64) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id FROM session_participants WHERE session_id = ? ORDER BY user_id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading participants of session %d: %w", sessionID, err)
	}
	defer rows.Close()

	users := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning participant: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: loading participants of session %d: %w", sessionID, err)
	}

	return users, nil
}

// insertParticipants writes participant rows inside an open transaction.
// INSERT OR IGNORE tolerates a duplicate id in the input slice: the
// composite primary key keeps the set semantics either way.
func insertParticipants(ctx context.Context, tx *sql.Tx, sessionID int64, users []int64) error {
	for _, userID := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO session_participants (session_id, user_id) VALUES (?, ?)`,
			sessionID, userID); err != nil {
			return fmt.Errorf("sqlite: inserting participant %d of session %d: %w", userID, sessionID, err)
		}
	}
	return nil
}
