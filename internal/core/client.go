package core

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionState is where a connection is in its lifecycle.
type SessionState int

const (
	// StateConnecting is a connection accepted by the transport but not yet registered.
	StateConnecting SessionState = iota
	// StateEstablished is a registered connection whose frames are routed.
	StateEstablished
	// StateClosed is terminal.
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateEstablished:
		return "established"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultSendBuffer is the outbound queue length used when none is configured.
const DefaultSendBuffer = 64

// Client is the connection record: identity plus the transport-facing queue.
//
// id, username and state belong to the Hub loop and must not be touched from
// transport goroutines. The transport drains Outbound and watches Done.
type Client struct {
	Session    string
	Origin     string
	RemoteAddr string
	Outbound   chan []byte

	id       int64
	username string
	state    SessionState

	connected atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a client record in the connecting state.
func NewClient(origin, remoteAddr string, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	c := &Client{
		Session:    uuid.NewString(),
		Origin:     origin,
		RemoteAddr: remoteAddr,
		Outbound:   make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
	c.connected.Store(true)
	return c
}

// ID returns the identity assigned at registration, 0 before that.
func (c *Client) ID() int64 { return c.id }

// Username returns the current name, empty until the client registers one.
func (c *Client) Username() string { return c.username }

// State returns the lifecycle state.
func (c *Client) State() SessionState { return c.state }

// Connected reports whether the transport still considers the connection open.
func (c *Client) Connected() bool { return c.connected.Load() }

// Done is closed once the connection is marked closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// MarkClosed flags the connection as gone. Safe to call from any goroutine, any number of times.
func (c *Client) MarkClosed() {
	c.closeOnce.Do(func() {
		c.connected.Store(false)
		close(c.done)
	})
}

// Send queues a serialized frame without blocking.
// A connection that cannot keep up is marked closed so the next
// dead-connection sweep drops it.
func (c *Client) Send(payload []byte) error {
	if !c.Connected() {
		return ErrConnClosed
	}
	select {
	case c.Outbound <- payload:
		return nil
	default:
		c.MarkClosed()
		return ErrSendBufferFull
	}
}
