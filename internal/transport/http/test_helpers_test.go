package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/config"
	"github.com/vovakirdan/relaychat/internal/core"
	"github.com/vovakirdan/relaychat/internal/store"
)

type testServer struct {
	*httptest.Server
	hub *core.Hub
}

// startTestServer runs a hub seeded at 1000 behind an httptest server.
func startTestServer(t *testing.T, cfg config.Config, opts core.Options, st store.SessionStore) *testServer {
	t.Helper()

	disabledLogger := zerolog.Nop()
	if opts.IDSeed == 0 {
		opts.IDSeed = 1000
	}
	opts.Logger = &disabledLogger

	hub := core.NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, st, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return &testServer{Server: ts, hub: hub}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StaticDir = t.TempDir()
	return cfg
}

func (ts *testServer) wsURL(path string) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + path
}

type frame struct {
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Text  string   `json:"text"`
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{Subprotocols: []string{"json"}})
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// readUntil reads frames until one of type typ arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) frame {
	t.Helper()
	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if f.Type == typ {
			return f
		}
	}
}

func write(t *testing.T, ctx context.Context, conn *websocket.Conn, v any) {
	t.Helper()
	if err := wsjson.Write(ctx, conn, v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
