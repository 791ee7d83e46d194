package core

import (
	"encoding/json"
	"testing"
	"time"
)

type frame struct {
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Text  string   `json:"text"`
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

func decodeFrame(t *testing.T, raw []byte) frame {
	t.Helper()
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("decode frame %s: %v", raw, err)
	}
	return f
}

// pending returns every frame already queued on c without waiting.
func pending(t *testing.T, c *Client) []frame {
	t.Helper()
	var out []frame
	for {
		select {
		case raw := <-c.Outbound:
			out = append(out, decodeFrame(t, raw))
		default:
			return out
		}
	}
}

// mustFrame waits for the next frame of the given type, skipping others.
func mustFrame(t *testing.T, c *Client, typ string) frame {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case raw := <-c.Outbound:
			f := decodeFrame(t, raw)
			if f.Type == typ {
				return f
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected frame type %q not received", typ)
	return frame{}
}

func newTestClient() *Client {
	return NewClient("http://localhost:6502", "127.0.0.1:40000", 32)
}

// connectSync registers a client through the hub handlers without a running loop.
func connectSync(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := newTestClient()
	h.handleConnect(c)
	if c.State() != StateEstablished {
		t.Fatalf("client not established: %v", c.State())
	}
	return c
}

func renameSync(t *testing.T, h *Hub, c *Client, name string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]any{"type": "username", "id": c.ID(), "name": name})
	h.handleFrame(c, payload)
}

func drainAll(t *testing.T, clients ...*Client) {
	t.Helper()
	for _, c := range clients {
		pending(t, c)
	}
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type fakeRecorder struct {
	events []SessionEvent
}

func (f *fakeRecorder) Record(ev SessionEvent) { f.events = append(f.events, ev) }
