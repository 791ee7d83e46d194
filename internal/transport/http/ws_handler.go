package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/core"
)

const writeTimeout = 10 * time.Second

var errSlowConsumer = errors.New("slow consumer")

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub         *core.Hub
	subprotocol string
	readLimit   int64
	sendBuffer  int
	log         *zerolog.Logger
}

// WSOptions tunes the websocket bridge.
type WSOptions struct {
	Subprotocol string
	ReadLimit   int64
	SendBuffer  int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, opts WSOptions, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:         hub,
		subprotocol: opts.Subprotocol,
		readLimit:   opts.ReadLimit,
		sendBuffer:  opts.SendBuffer,
		log:         logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	origin := r.Header.Get("Origin")
	if !h.hub.Admit(origin) {
		h.log.Warn().Str("origin", origin).Str("remote", r.RemoteAddr).Msg("connection rejected by origin policy")
		stdhttp.Error(w, "origin not allowed", stdhttp.StatusForbidden)
		return
	}

	opts := &websocket.AcceptOptions{
		// Origins are screened by the hub policy above.
		InsecureSkipVerify: true,
	}
	if h.subprotocol != "" {
		opts.Subprotocols = []string{h.subprotocol}
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	client := core.NewClient(origin, r.RemoteAddr, h.sendBuffer)
	h.log.Debug().Str("session", client.Session).Str("origin", origin).Str("subprotocol", conn.Subprotocol()).Msg("ws accepted")
	h.hub.Connect(client)
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status, reason := closeStatus(err)
	if status == websocket.StatusInternalError || status == websocket.StatusPolicyViolation {
		h.log.Warn().Err(err).Str("session", client.Session).Msg("ws connection closed with error")
	}
	conn.Close(status, reason)
}

func closeStatus(err error) (websocket.StatusCode, string) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return websocket.StatusNormalClosure, "closing"
	}
	if errors.Is(err, errSlowConsumer) {
		return websocket.StatusPolicyViolation, err.Error()
	}
	switch s := websocket.CloseStatus(err); s {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return websocket.StatusNormalClosure, "closing"
	case -1:
		return websocket.StatusInternalError, err.Error()
	default:
		return s, "closing"
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug().Err(err).Str("session", client.Session).Msg("read ws frame")
			return err
		}
		if typ != websocket.MessageText {
			h.log.Debug().Str("session", client.Session).Int("bytes", len(data)).Msg("ignoring non-text frame")
			continue
		}
		h.hub.Deliver(client, data)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case payload := <-client.Outbound:
			if err := h.write(ctx, conn, payload); err != nil {
				h.log.Error().Err(err).Str("session", client.Session).Msg("write ws frame")
				return err
			}
		case <-client.Done():
			return errSlowConsumer
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
