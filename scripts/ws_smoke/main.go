package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/vovakirdan/relaychat/internal/proto"
)

type frame struct {
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Text  string   `json:"text"`
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run connects, claims a name, sends one message and waits for its echo.
func run() error {
	addr := flag.String("addr", "ws://localhost:6502/", "WebSocket address")
	name := flag.String("name", "tester", "username to request")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, &websocket.DialOptions{
		Subprotocols: []string{proto.Subprotocol},
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	var id int64
	named := false
	for {
		var in frame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("Received: type=%s id=%d\n", in.Type, in.ID)

		switch in.Type {
		case proto.TypeID:
			id = in.ID
			req := proto.Username{Type: proto.TypeUsername, ID: id, Name: *name}
			if err := wsjson.Write(ctx, conn, req); err != nil {
				return fmt.Errorf("send username: %w", err)
			}
		case proto.TypeRejectUsername:
			fmt.Printf("Renamed by server: %s\n", in.Name)
		case proto.TypeUserList:
			fmt.Printf("Roster: %v\n", in.Users)
			if named || id == 0 {
				continue
			}
			named = true
			msg := proto.Chat{Type: proto.TypeMessage, ID: id, Text: *text}
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		case proto.TypeMessage:
			fmt.Printf("Message: name=%s text=%q\n", in.Name, in.Text)
			if in.ID == id {
				return nil
			}
		}
	}
}
