package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil, 0)
	go hub.Run(ctx)
	t.Cleanup(cancel)

	return hub
}

func mustSubmit(t *testing.T, hub *Hub, cmd *Command, kind EventKind) *Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := hub.Submit(ctx, cmd)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ev.Kind != kind {
		t.Fatalf("expected event kind %v, got %+v", kind, ev)
	}
	return ev
}

func openSession(t *testing.T, hub *Hub) string {
	t.Helper()

	ev := mustSubmit(t, hub, &Command{Kind: CommandOpenSession}, EventSession)
	if ev.SessionID == "" {
		t.Fatalf("expected session id")
	}
	return ev.SessionID
}

func lineTexts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}
