package core

import "errors"

var (
	// ErrConnClosed is returned when sending to a connection the transport already closed.
	ErrConnClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when a connection does not drain its outbound queue.
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrMalformed marks inbound payloads that are not a valid protocol message.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownType marks well-formed messages with a type the router does not handle.
	ErrUnknownType = errors.New("unknown message type")
	// ErrUnknownClient marks messages referencing an id that is not (or no longer) registered.
	ErrUnknownClient = errors.New("unknown client")
	// ErrUnnamed marks chat messages from a connection that has not picked a username.
	ErrUnnamed = errors.New("client has no username")
	// ErrEmptyName marks rename requests with an empty name.
	ErrEmptyName = errors.New("empty username")
	// ErrNameExhausted means the disambiguation loop ran past its bound.
	// The suffix counter only grows, so seeing it is a bug.
	ErrNameExhausted = errors.New("username disambiguation did not terminate")
)
