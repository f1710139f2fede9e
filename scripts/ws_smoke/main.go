package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomgate/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run walks the locked/unlocked scenario against a live server: post an
// encrypted message, enter with a wrong password, then set the password.
func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "smoke", "room name")
	text := flag.String("text", "hello", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if _, err := read(ctx, conn); err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	wrong := "definitely-wrong"
	password := fmt.Sprintf("pw-%d", time.Now().UnixNano())
	steps := []struct {
		typ  string
		data any
	}{
		{proto.InboundTypeMsg, proto.MsgData{Room: *room, Author: "smoke", Content: *text, Encrypted: true}},
		{proto.InboundTypeEnter, proto.PasswordData{Room: *room, Password: &wrong}},
		{proto.InboundTypeSetPassword, proto.PasswordData{Room: *room, Password: &password}},
	}

	for _, step := range steps {
		payload, err := json.Marshal(step.data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", step.typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: step.typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", step.typ, err)
		}

		view, err := read(ctx, conn)
		if err != nil {
			return fmt.Errorf("read after %s: %w", step.typ, err)
		}
		last := ""
		if n := len(view.Lines); n > 0 {
			last = view.Lines[n-1].Text
		}
		fmt.Printf("%-12s screen=%s unlocked=%t last=%q\n", step.typ, view.Screen, view.Unlocked, last)
	}
	return nil
}

func read(ctx context.Context, conn *websocket.Conn) (proto.ViewData, error) {
	var outbound struct {
		Type  string          `json:"type"`
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
		Error *proto.Error    `json:"error"`
	}
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		return proto.ViewData{}, err
	}
	if outbound.Error != nil {
		return proto.ViewData{}, fmt.Errorf("%s: %s", outbound.Error.Code, outbound.Error.Msg)
	}

	var view proto.ViewData
	if outbound.Event != proto.EventView {
		return view, nil
	}
	if err := json.Unmarshal(outbound.Data, &view); err != nil {
		return view, fmt.Errorf("unmarshal view: %w", err)
	}
	return view, nil
}
