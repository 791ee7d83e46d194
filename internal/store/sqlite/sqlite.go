package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/relaychat/internal/store"
)

// Schema creates the session journal. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	client_id       INTEGER NOT NULL,
	origin          TEXT NOT NULL DEFAULT '',
	remote_addr     TEXT NOT NULL DEFAULT '',
	username        TEXT NOT NULL DEFAULT '',
	connected_at    DATETIME NOT NULL,
	disconnected_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_sessions_connected ON sessions(connected_at DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies Schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, ApplySchema)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests that need a custom schema or seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps
	// ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ApplySchema runs Schema against db.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// OpenSession inserts a new session row.
func (s *SQLiteStore) OpenSession(ctx context.Context, sess *store.Session) error {
	query := `
		INSERT INTO sessions (id, client_id, origin, remote_addr, username, connected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.ClientID, sess.Origin, sess.RemoteAddr, sess.Username, sess.ConnectedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// RenameSession records the latest username of a session.
func (s *SQLiteStore) RenameSession(ctx context.Context, id, username string) error {
	return s.updateOne(ctx, `UPDATE sessions SET username = ? WHERE id = ?`, username, id)
}

// CloseSession stamps the disconnect time.
func (s *SQLiteStore) CloseSession(ctx context.Context, id string, at time.Time) error {
	return s.updateOne(ctx, `UPDATE sessions SET disconnected_at = ? WHERE id = ?`, at.UTC(), id)
}

func (s *SQLiteStore) updateOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	query := `
		SELECT id, client_id, origin, remote_addr, username, connected_at, disconnected_at
		FROM sessions
		WHERE id = ?
	`
	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	return sess, nil
}

// ListSessions returns the most recent sessions first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]*store.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, client_id, origin, remote_addr, username, connected_at, disconnected_at
		FROM sessions
		ORDER BY connected_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*store.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*store.Session, error) {
	var (
		sess         store.Session
		disconnected sql.NullTime
	)
	if err := row.Scan(
		&sess.ID,
		&sess.ClientID,
		&sess.Origin,
		&sess.RemoteAddr,
		&sess.Username,
		&sess.ConnectedAt,
		&disconnected,
	); err != nil {
		return nil, err
	}
	if disconnected.Valid {
		t := disconnected.Time
		sess.DisconnectedAt = &t
	}
	return &sess, nil
}
