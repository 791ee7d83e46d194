package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Session is one journaled connection. Chat text is never stored.
type Session struct {
	ID             string // uuid assigned at accept time
	ClientID       int64
	Origin         string
	RemoteAddr     string
	Username       string // latest committed name, empty if never set
	ConnectedAt    time.Time
	DisconnectedAt *time.Time // nil while the connection is open
}

// SessionStore handles session journal persistence.
type SessionStore interface {
	// OpenSession inserts a new session row.
	OpenSession(ctx context.Context, s *Session) error

	// RenameSession records the latest username of a session.
	RenameSession(ctx context.Context, id, username string) error

	// CloseSession stamps the disconnect time.
	CloseSession(ctx context.Context, id string, at time.Time) error

	// GetSession retrieves a session by id.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions returns the most recent sessions first.
	ListSessions(ctx context.Context, limit int) ([]*Session, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	SessionStore

	// Close closes the underlying database connection.
	Close() error
}
