package core

// Registry is the authoritative, ordered set of live connections.
// It is owned by the Hub loop and has no locking of its own.
type Registry struct {
	ids     *IDGenerator
	clients []*Client
	byID    map[int64]*Client
}

// NewRegistry builds an empty registry drawing ids from ids.
func NewRegistry(ids *IDGenerator) *Registry {
	return &Registry{
		ids:  ids,
		byID: make(map[int64]*Client),
	}
}

// Insert assigns the next id to c, appends it with an empty username and returns the id.
func (r *Registry) Insert(c *Client) int64 {
	id := r.ids.Next()
	c.id = id
	c.username = ""
	r.clients = append(r.clients, c)
	r.byID[id] = c
	return id
}

// FindByID looks up a live connection. Absent is a normal outcome for
// messages that reference a connection which has since left.
func (r *Registry) FindByID(id int64) (*Client, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// FindByUsername reports whether any connection holds name.
// The empty name is never considered taken.
func (r *Registry) FindByUsername(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range r.clients {
		if c.username == name {
			return true
		}
	}
	return false
}

// SetUsername stores name on the connection with the given id. The caller
// must already have established that name is free.
func (r *Registry) SetUsername(id int64, name string) error {
	c, ok := r.byID[id]
	if !ok {
		return ErrUnknownClient
	}
	c.username = name
	return nil
}

// RemoveDead drops every connection whose transport reports it closed,
// keeping the relative order of the survivors. It returns the removed records.
func (r *Registry) RemoveDead() []*Client {
	var removed []*Client
	live := r.clients[:0]
	for _, c := range r.clients {
		if c.Connected() {
			live = append(live, c)
			continue
		}
		c.state = StateClosed
		delete(r.byID, c.id)
		removed = append(removed, c)
	}
	for i := len(live); i < len(r.clients); i++ {
		r.clients[i] = nil
	}
	r.clients = live
	return removed
}

// Len returns the number of live connections.
func (r *Registry) Len() int { return len(r.clients) }

// Clients returns a snapshot in registry order.
func (r *Registry) Clients() []*Client {
	out := make([]*Client, len(r.clients))
	copy(out, r.clients)
	return out
}
