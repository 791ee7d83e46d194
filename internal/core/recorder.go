package core

import "time"

// SessionEventKind distinguishes lifecycle notifications sent to a SessionRecorder.
type SessionEventKind int

const (
	SessionOpened SessionEventKind = iota
	SessionRenamed
	SessionClosed
)

// SessionEvent is a value copy of what changed, safe to hand to another goroutine.
type SessionEvent struct {
	Kind       SessionEventKind
	Session    string
	ClientID   int64
	Origin     string
	RemoteAddr string
	Username   string
	At         time.Time
}

// SessionRecorder observes connection lifecycle. Record is called from the
// Hub loop and must not block.
type SessionRecorder interface {
	Record(ev SessionEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(SessionEvent) {}

func sessionEvent(kind SessionEventKind, c *Client) SessionEvent {
	return SessionEvent{
		Kind:       kind,
		Session:    c.Session,
		ClientID:   c.id,
		Origin:     c.Origin,
		RemoteAddr: c.RemoteAddr,
		Username:   c.username,
		At:         time.Now(),
	}
}
