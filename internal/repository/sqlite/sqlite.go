// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns the lifecycle: New creates it, Close releases
// the file lock and flushes the WAL.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/yogabook.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
//
// The pragmas ride in the DSN rather than a one-off Exec: foreign_keys is a
// per-connection setting, and database/sql opens connections lazily — a
// pragma run on one connection does nothing for the next one the pool opens.
// The delete cascades on session_participants depend on every connection
// having it on.
//
// WAL mode allows concurrent reads while a write is happening — default
// SQLite locks the entire database during writes.
func New(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dbPath)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permissions issue
	// surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema and seeds the teacher roster.
// CREATE TABLE IF NOT EXISTS keeps this idempotent — safe on existing files.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			password   TEXT NOT NULL,
			admin      INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS teachers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating teachers table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			date        DATETIME NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			teacher_id  INTEGER REFERENCES teachers(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}

	// Join table for session participation. The composite primary key
	// enforces the "a user appears at most once per session" invariant at
	// the storage layer too, not just in the service.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS session_participants (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (session_id, user_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating session_participants table: %w", err)
	}

	return db.seedTeachers()
}

// seedTeachers inserts the studio's teacher roster on first run. Teachers
// are read-only through the API, so the seed is the only write path.
func (db *DB) seedTeachers() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM teachers`).Scan(&count); err != nil {
		return fmt.Errorf("counting teachers: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.conn.Exec(`
		INSERT INTO teachers (first_name, last_name) VALUES
			('Margot', 'DELAHAYE'),
			('Hélène', 'THIERCELIN');
	`)
	if err != nil {
		return fmt.Errorf("seeding teachers: %w", err)
	}
	return nil
}
