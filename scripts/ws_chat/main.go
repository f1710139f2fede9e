package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomgate/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "author name for sent messages")
	room := flag.String("room", "general", "room to open")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	fmt.Printf("Connected to %s as %s, room %s\n", *addr, *user, *room)
	fmt.Println("Commands: /enter <pw>, /set <pw>, /secret <text>, /view, /rooms. Other lines are sent as plain messages.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	if err := send(ctx, conn, proto.InboundTypeView, proto.RoomData{Room: *room}); err != nil {
		return err
	}
	writeLoop(ctx, conn, *room, *user)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
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

		if outbound.Error != nil {
			fmt.Printf("! %s: %s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}

		switch outbound.Event {
		case proto.EventSession:
			var evt proto.SessionData
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal session: %v", err)
				continue
			}
			fmt.Printf("session %s\n", evt.SessionID)
		case proto.EventView:
			var view proto.ViewData
			if err := json.Unmarshal(outbound.Data, &view); err != nil {
				log.Printf("unmarshal view: %v", err)
				continue
			}
			printView(view)
		case proto.EventRooms:
			var rooms []proto.RoomSummaryData
			if err := json.Unmarshal(outbound.Data, &rooms); err != nil {
				log.Printf("unmarshal rooms: %v", err)
				continue
			}
			for _, r := range rooms {
				fmt.Printf("  %s (messages=%d, password=%t)\n", r.Room, r.Messages, r.HasPassword)
			}
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Event, string(outbound.Data))
		}
	}
}

func printView(view proto.ViewData) {
	if view.Screen == "password_prompt" {
		fmt.Printf("Enter password for chat %s (/enter <pw> or /set <pw>)\n", view.Room)
		return
	}

	state := "locked"
	if view.Unlocked {
		state = "unlocked"
	}
	fmt.Printf("--- %s [%s] ---\n", view.Room, state)
	for _, line := range view.Lines {
		fmt.Printf("%s: %s\n", line.Author, line.Text)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room, user string) {
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
			if err := dispatch(ctx, conn, room, user, text); err != nil {
				log.Printf("%v", err)
				return
			}
		}
	}
}

func dispatch(ctx context.Context, conn *websocket.Conn, room, user, text string) error {
	cmd, arg, _ := strings.Cut(text, " ")
	switch cmd {
	case "/enter":
		return send(ctx, conn, proto.InboundTypeEnter, proto.PasswordData{Room: room, Password: &arg})
	case "/set":
		return send(ctx, conn, proto.InboundTypeSetPassword, proto.PasswordData{Room: room, Password: &arg})
	case "/secret":
		return send(ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: room, Author: user, Content: arg, Encrypted: true})
	case "/view":
		return send(ctx, conn, proto.InboundTypeView, proto.RoomData{Room: room})
	case "/rooms":
		return send(ctx, conn, proto.InboundTypeRooms, struct{}{})
	default:
		return send(ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: room, Author: user, Content: text})
	}
}
