package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/proto"
)

const defaultQueueSize = 256

type eventKind int

const (
	eventConnect eventKind = iota
	eventFrame
	eventClose
)

type event struct {
	kind    eventKind
	client  *Client
	payload []byte
}

// Options configures a Hub.
type Options struct {
	// IDSeed is the first client id; <= 0 seeds from the clock.
	IDSeed int64
	// RosterIncludeUnnamed lists connections without a username as "".
	RosterIncludeUnnamed bool
	// Policy screens handshakes; nil accepts every origin.
	Policy OriginPolicy
	// Recorder observes session lifecycle; nil discards.
	Recorder SessionRecorder
	// QueueSize bounds pending transport events.
	QueueSize int
	Logger    *zerolog.Logger
}

// Hub runs the session lifecycle. Accepts, frames and closes from every
// connection are funneled into one goroutine, which is the only code that
// touches the registry and both counters.
type Hub struct {
	events chan event
	done   chan struct{}

	policy      OriginPolicy
	recorder    SessionRecorder
	registry    *Registry
	broadcaster *Broadcaster
	router      *Router
	log         *zerolog.Logger
}

// NewHub creates a hub; call Run to start processing.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	policy := opts.Policy
	if policy == nil {
		policy = AllowAll
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	queue := opts.QueueSize
	if queue <= 0 {
		queue = defaultQueueSize
	}

	registry := NewRegistry(NewIDGenerator(opts.IDSeed))
	broadcaster := NewBroadcaster(registry, opts.RosterIncludeUnnamed, logger)

	return &Hub{
		events:      make(chan event, queue),
		done:        make(chan struct{}),
		policy:      policy,
		recorder:    recorder,
		registry:    registry,
		broadcaster: broadcaster,
		router:      NewRouter(registry, broadcaster, NewDisambiguator(), recorder),
		log:         logger,
	}
}

// Admit applies the origin policy. It has no side effects and may be called
// from any goroutine before the transport completes the handshake.
func (h *Hub) Admit(origin string) bool {
	return h.policy(origin)
}

// Connect registers a freshly accepted connection.
func (h *Hub) Connect(c *Client) { h.enqueue(event{kind: eventConnect, client: c}) }

// Deliver hands one inbound text frame from c to the router.
func (h *Hub) Deliver(c *Client, payload []byte) {
	h.enqueue(event{kind: eventFrame, client: c, payload: payload})
}

// Disconnect reports that the transport closed c.
func (h *Hub) Disconnect(c *Client) {
	c.MarkClosed()
	h.enqueue(event{kind: eventClose, client: c})
}

func (h *Hub) enqueue(ev event) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

// Run processes events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("clients", h.registry.Len()).Msg("hub stopped")
			return
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

func (h *Hub) handle(ev event) {
	switch ev.kind {
	case eventConnect:
		h.handleConnect(ev.client)
	case eventFrame:
		h.handleFrame(ev.client, ev.payload)
	case eventClose:
		h.handleClose(ev.client)
	}
}

func (h *Hub) handleConnect(c *Client) {
	if c.state != StateConnecting {
		return
	}
	if !c.Connected() {
		// Closed before the hub got to it; nothing was committed yet.
		c.state = StateClosed
		return
	}

	id := h.registry.Insert(c)
	c.state = StateEstablished
	h.log.Info().
		Int64("client_id", id).
		Str("session", c.Session).
		Str("origin", c.Origin).
		Int("clients", h.registry.Len()).
		Msg("connection established")

	if err := h.broadcaster.SendTo(c, proto.NewIdentity(id)); err != nil {
		h.log.Warn().Err(err).Int64("client_id", id).Msg("send id")
	}
	h.recorder.Record(sessionEvent(SessionOpened, c))
	h.broadcaster.BroadcastRoster()
}

func (h *Hub) handleFrame(c *Client, payload []byte) {
	if c.state != StateEstablished {
		return
	}
	err := h.router.Route(payload)
	if err == nil {
		return
	}

	entry := h.log.Warn()
	switch {
	case errors.Is(err, ErrUnknownClient), errors.Is(err, ErrUnnamed), errors.Is(err, ErrUnknownType):
		entry = h.log.Debug()
	case errors.Is(err, ErrNameExhausted):
		entry = h.log.Error()
	}
	entry.Err(err).Int64("client_id", c.id).Str("session", c.Session).Msg("inbound dropped")
}

func (h *Hub) handleClose(c *Client) {
	if c.state == StateClosed {
		return
	}
	wasEstablished := c.state == StateEstablished
	c.state = StateClosed
	if !wasEstablished {
		return
	}

	for _, gone := range h.registry.RemoveDead() {
		h.recorder.Record(sessionEvent(SessionClosed, gone))
		h.log.Info().
			Int64("client_id", gone.id).
			Str("session", gone.Session).
			Str("remote", gone.RemoteAddr).
			Msg("peer disconnected")
	}
	h.broadcaster.BroadcastRoster()
}
