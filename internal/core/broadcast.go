package core

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/proto"
)

// Broadcaster serializes outbound messages once and fans them out over the registry.
type Broadcaster struct {
	registry       *Registry
	includeUnnamed bool
	log            *zerolog.Logger
}

// NewBroadcaster builds a broadcaster. includeUnnamed controls whether
// connections without a username appear in the roster as "".
func NewBroadcaster(registry *Registry, includeUnnamed bool, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, includeUnnamed: includeUnnamed, log: logger}
}

// BuildRoster snapshots usernames in registry order.
func (b *Broadcaster) BuildRoster() proto.UserList {
	users := make([]string, 0, b.registry.Len())
	for _, c := range b.registry.clients {
		if c.username == "" && !b.includeUnnamed {
			continue
		}
		users = append(users, c.username)
	}
	return proto.NewUserList(users)
}

// BroadcastRoster sends the current roster to every live connection.
func (b *Broadcaster) BroadcastRoster() int {
	n, err := b.Broadcast(b.BuildRoster())
	if err != nil {
		b.log.Error().Err(err).Msg("broadcast roster")
	}
	return n
}

// Broadcast encodes msg once and queues the same bytes on every live
// connection in registry order. A failed send is logged and skipped.
// It returns how many connections accepted the frame.
func (b *Broadcaster) Broadcast(msg any) (int, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("encode broadcast: %w", err)
	}
	delivered := 0
	for _, c := range b.registry.clients {
		if b.deliver(c, payload) == nil {
			delivered++
		}
	}
	return delivered, nil
}

// SendTo encodes msg and queues it on a single connection.
func (b *Broadcaster) SendTo(c *Client, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode unicast: %w", err)
	}
	return b.deliver(c, payload)
}

func (b *Broadcaster) deliver(c *Client, payload []byte) error {
	if err := c.Send(payload); err != nil {
		b.log.Debug().Err(err).Int64("client_id", c.id).Str("session", c.Session).Msg("skip send")
		return err
	}
	return nil
}
