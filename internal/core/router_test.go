package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestRouterChatStampsNameAndStripsTags(t *testing.T) {
	h := NewHub(Options{IDSeed: 1000, RosterIncludeUnnamed: true})
	a := connectSync(t, h)
	b := connectSync(t, h)
	renameSync(t, h, a, "bob")
	drainAll(t, a, b)

	raw := fmt.Sprintf(`{"type":"message","id":%d,"text":"hello <b>world</b>","name":"spoofed"}`, a.ID())
	if err := h.router.Route([]byte(raw)); err != nil {
		t.Fatalf("Route: %v", err)
	}

	for _, c := range []*Client{a, b} {
		got := pending(t, c)
		if len(got) != 1 {
			t.Fatalf("expected one frame, got %+v", got)
		}
		msg := got[0]
		if msg.Type != "message" || msg.ID != a.ID() || msg.Name != "bob" || msg.Text != "hello world" {
			t.Fatalf("unexpected chat frame: %+v", msg)
		}
	}
}

func TestRouterDropsDanglingReference(t *testing.T) {
	h := NewHub(Options{IDSeed: 1000})
	a := connectSync(t, h)
	renameSync(t, h, a, "alice")
	drainAll(t, a)

	for _, raw := range []string{
		`{"type":"message","id":999,"text":"hi"}`,
		`{"type":"username","id":999,"name":"ghost"}`,
	} {
		if err := h.router.Route([]byte(raw)); !errors.Is(err, ErrUnknownClient) {
			t.Fatalf("Route(%s) = %v, want ErrUnknownClient", raw, err)
		}
	}
	if got := pending(t, a); len(got) != 0 {
		t.Fatalf("dangling reference produced frames: %+v", got)
	}
}

func TestRouterRejectsBadInput(t *testing.T) {
	h := NewHub(Options{IDSeed: 1000})
	a := connectSync(t, h)
	renameSync(t, h, a, "alice")
	unnamed := connectSync(t, h)
	drainAll(t, a, unnamed)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "not json", raw: `hello`, want: ErrMalformed},
		{name: "truncated", raw: `{"type":"message"`, want: ErrMalformed},
		{name: "missing id", raw: `{"type":"message","text":"hi"}`, want: ErrMalformed},
		{name: "missing text", raw: fmt.Sprintf(`{"type":"message","id":%d}`, a.ID()), want: ErrMalformed},
		{name: "missing name", raw: fmt.Sprintf(`{"type":"username","id":%d}`, a.ID()), want: ErrMalformed},
		{name: "empty name", raw: fmt.Sprintf(`{"type":"username","id":%d,"name":""}`, a.ID()), want: ErrEmptyName},
		{name: "unknown type", raw: fmt.Sprintf(`{"type":"typing","id":%d}`, a.ID()), want: ErrUnknownType},
		{name: "chat before username", raw: fmt.Sprintf(`{"type":"message","id":%d,"text":"hi"}`, unnamed.ID()), want: ErrUnnamed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.router.Route([]byte(tt.raw)); !errors.Is(err, tt.want) {
				t.Fatalf("Route = %v, want %v", err, tt.want)
			}
			if got := pending(t, a); len(got) != 0 {
				t.Fatalf("dropped input produced frames: %+v", got)
			}
		})
	}
}

func TestRouterRenameDisambiguation(t *testing.T) {
	h := NewHub(Options{IDSeed: 1000, RosterIncludeUnnamed: true})
	alice := connectSync(t, h)
	second := connectSync(t, h)
	third := connectSync(t, h)
	renameSync(t, h, alice, "alice")
	drainAll(t, alice, second, third)

	if h.router.names.Peek() != 1 {
		t.Fatalf("counter should start at 1, got %d", h.router.names.Peek())
	}

	renameSync(t, h, second, "alice")
	frames := pending(t, second)
	if len(frames) != 2 {
		t.Fatalf("expected rejectusername then userlist, got %+v", frames)
	}
	if frames[0].Type != "rejectusername" || frames[0].Name != "alice1" || frames[0].ID != second.ID() {
		t.Fatalf("unexpected notice: %+v", frames[0])
	}
	if frames[1].Type != "userlist" || !sameStrings(frames[1].Users, []string{"alice", "alice1", ""}) {
		t.Fatalf("unexpected roster: %+v", frames[1])
	}
	if second.Username() != "alice1" || h.router.names.Peek() != 2 {
		t.Fatalf("name=%q counter=%d", second.Username(), h.router.names.Peek())
	}

	// Only the requester hears about the collision.
	for _, f := range pending(t, alice) {
		if f.Type == "rejectusername" {
			t.Fatalf("rejectusername leaked to another client: %+v", f)
		}
	}

	renameSync(t, h, third, "alice")
	if f := mustFrame(t, third, "rejectusername"); f.Name != "alice2" {
		t.Fatalf("second collision resolved to %q, want alice2", f.Name)
	}
	if h.router.names.Peek() != 3 {
		t.Fatalf("counter = %d, want 3", h.router.names.Peek())
	}
}

func TestRouterRenameSkipsTakenSuffixes(t *testing.T) {
	h := NewHub(Options{IDSeed: 1})
	a, b, c := connectSync(t, h), connectSync(t, h), connectSync(t, h)
	renameSync(t, h, a, "x")
	renameSync(t, h, b, "x1")
	drainAll(t, a, b, c)

	renameSync(t, h, c, "x")
	if c.Username() != "x2" {
		t.Fatalf("expected x2 after skipping taken x1, got %q", c.Username())
	}
}

func TestRouterRenameToOwnNameCollides(t *testing.T) {
	h := NewHub(Options{IDSeed: 1})
	a := connectSync(t, h)
	renameSync(t, h, a, "alice")
	drainAll(t, a)

	renameSync(t, h, a, "alice")
	frames := pending(t, a)
	if len(frames) != 2 || frames[0].Type != "rejectusername" || frames[1].Type != "userlist" {
		t.Fatalf("expected rejectusername then roster, got %+v", frames)
	}
	if frames[0].Name != "alice1" {
		t.Fatalf("rejectusername name = %q", frames[0].Name)
	}
	if a.Username() != "alice1" || h.router.names.Peek() != 2 {
		t.Fatalf("name=%q counter=%d", a.Username(), h.router.names.Peek())
	}
}

func TestUsernameUniquenessInvariant(t *testing.T) {
	h := NewHub(Options{IDSeed: 500})
	clients := make([]*Client, 6)
	for i := range clients {
		clients[i] = connectSync(t, h)
	}

	requests := []string{"a", "a", "b", "a1", "a", "b", "a", "b1", "a2", "a"}
	for i, name := range requests {
		renameSync(t, h, clients[i%len(clients)], name)

		seenNames := make(map[string]struct{})
		seenIDs := make(map[int64]struct{})
		for _, c := range h.registry.Clients() {
			if _, dup := seenIDs[c.ID()]; dup {
				t.Fatalf("step %d: duplicate id %d", i, c.ID())
			}
			seenIDs[c.ID()] = struct{}{}
			if c.Username() == "" {
				continue
			}
			if _, dup := seenNames[c.Username()]; dup {
				t.Fatalf("step %d: duplicate username %q", i, c.Username())
			}
			seenNames[c.Username()] = struct{}{}
		}
	}
}
