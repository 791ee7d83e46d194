package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/vovakirdan/relaychat/internal/proto"
)

// frame is a loose view over every message the relay sends.
type frame struct {
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Text  string   `json:"text"`
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:6502/", "WebSocket address")
	name := flag.String("name", "cli-user", "username to request after connecting")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, &websocket.DialOptions{
		Subprotocols: []string{proto.Subprotocol},
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	var id atomic.Int64

	fmt.Printf("Connected to %s\n", *addr)
	fmt.Println("Type messages and press Enter to send. /name <new> renames. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn, &id, *name)
	}()

	writeLoop(ctx, conn, &id)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, id *atomic.Int64, name string) {
	for {
		var in frame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch in.Type {
		case proto.TypeID:
			id.Store(in.ID)
			fmt.Printf("assigned id %d\n", in.ID)
			req := proto.Username{Type: proto.TypeUsername, ID: in.ID, Name: name}
			if err := wsjson.Write(ctx, conn, req); err != nil {
				log.Printf("send username: %v", err)
				return
			}
		case proto.TypeUserList:
			fmt.Printf("online: %s\n", strings.Join(in.Users, ", "))
		case proto.TypeMessage:
			fmt.Printf("%s: %s\n", in.Name, in.Text)
		case proto.TypeRejectUsername:
			fmt.Printf("name taken, you are now %s\n", in.Name)
		default:
			fmt.Printf("type=%s id=%d\n", in.Type, in.ID)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, id *atomic.Int64) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			var out any
			if rest, found := strings.CutPrefix(text, "/name "); found {
				out = proto.Username{Type: proto.TypeUsername, ID: id.Load(), Name: strings.TrimSpace(rest)}
			} else {
				out = outboundChat{Type: proto.TypeMessage, ID: id.Load(), Text: text}
			}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}

type outboundChat struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Text string `json:"text"`
}
