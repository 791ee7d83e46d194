package core

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/relaychat/internal/proto"
)

// Router classifies an inbound message, applies the registry mutation it
// implies and triggers the matching broadcast.
type Router struct {
	registry    *Registry
	broadcaster *Broadcaster
	names       *Disambiguator
	recorder    SessionRecorder
}

// NewRouter builds a router over the given registry state.
func NewRouter(registry *Registry, broadcaster *Broadcaster, names *Disambiguator, recorder SessionRecorder) *Router {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Router{
		registry:    registry,
		broadcaster: broadcaster,
		names:       names,
		recorder:    recorder,
	}
}

// Route handles one text frame. A non-nil error means the frame was
// dropped without mutating state or broadcasting.
func (rt *Router) Route(raw []byte) error {
	var in proto.Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch in.Type {
	case proto.TypeMessage:
		return rt.chat(in)
	case proto.TypeUsername:
		return rt.rename(in)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
}

func (rt *Router) resolve(in proto.Inbound) (*Client, error) {
	if in.ID == nil {
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	c, ok := rt.registry.FindByID(*in.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClient, *in.ID)
	}
	return c, nil
}

func (rt *Router) chat(in proto.Inbound) error {
	if in.Text == nil {
		return fmt.Errorf("%w: missing text", ErrMalformed)
	}
	c, err := rt.resolve(in)
	if err != nil {
		return err
	}
	if c.username == "" {
		return fmt.Errorf("%w: %d", ErrUnnamed, c.id)
	}

	_, err = rt.broadcaster.Broadcast(proto.Chat{
		Type: proto.TypeMessage,
		ID:   c.id,
		Text: StripTags(*in.Text),
		Name: c.username,
	})
	return err
}

func (rt *Router) rename(in proto.Inbound) error {
	if in.Name == nil {
		return fmt.Errorf("%w: missing name", ErrMalformed)
	}
	if *in.Name == "" {
		return ErrEmptyName
	}
	c, err := rt.resolve(in)
	if err != nil {
		return err
	}

	name, changed, err := rt.uniqueName(*in.Name)
	if err != nil {
		return err
	}
	if changed {
		// Corrective notice goes out before the roster so the client can
		// adopt the new name before it sees it listed.
		if err := rt.broadcaster.SendTo(c, proto.RejectUsername{
			Type: proto.TypeRejectUsername,
			ID:   c.id,
			Name: name,
		}); err != nil {
			rt.broadcaster.log.Debug().Err(err).Int64("client_id", c.id).Msg("rejectusername not delivered")
		}
	}

	if err := rt.registry.SetUsername(c.id, name); err != nil {
		return err
	}
	rt.recorder.Record(sessionEvent(SessionRenamed, c))
	rt.broadcaster.BroadcastRoster()
	return nil
}

// uniqueName appends disambiguator suffixes to requested until no live
// connection holds the result. The requester's current name counts too, so
// asking again for the name you hold yields a suffixed one. Each collision
// consumes one suffix. Since every candidate is distinct, at most Len() of
// them can be taken.
func (rt *Router) uniqueName(requested string) (string, bool, error) {
	candidate := requested
	changed := false
	limit := rt.registry.Len() + 1
	for tries := 0; rt.registry.FindByUsername(candidate); tries++ {
		if tries >= limit {
			return "", false, fmt.Errorf("%w: %q", ErrNameExhausted, requested)
		}
		candidate = requested + rt.names.Suffix()
		changed = true
	}
	return candidate, changed, nil
}
