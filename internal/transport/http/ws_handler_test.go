package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/proto"
)

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

func startTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(newTestHandler(t, cfg))
	t.Cleanup(ts.Close)
	return ts
}

func dialScreen(ctx context.Context, t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, string) {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws" + query
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	out := readOutbound(ctx, t, conn)
	if out.Event != proto.EventSession {
		t.Fatalf("expected session event first, got %+v", out)
	}
	var sess proto.SessionData
	if err := json.Unmarshal(out.Data, &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	return conn, sess.SessionID
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: raw}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readOutbound(ctx context.Context, t *testing.T, conn *websocket.Conn) rawOutbound {
	t.Helper()

	var out rawOutbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func readView(ctx context.Context, t *testing.T, conn *websocket.Conn) proto.ViewData {
	t.Helper()

	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventView {
		t.Fatalf("expected view event, got %+v", out)
	}
	var view proto.ViewData
	if err := json.Unmarshal(out.Data, &view); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	return view
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, testConfig())

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketScreenUnlockFlow(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	owner, _ := dialScreen(ctx, t, ts, "")
	viewer, _ := dialScreen(ctx, t, ts, "")

	send(ctx, t, owner, proto.InboundTypeSetPassword, proto.PasswordData{Room: "r1", Password: strPtr("abc")})
	if view := readView(ctx, t, owner); !view.Unlocked {
		t.Fatalf("owner should be unlocked: %+v", view)
	}

	send(ctx, t, owner, proto.InboundTypeMsg, proto.MsgData{Room: "r1", Author: "bob", Content: "hello", Encrypted: true})
	if got := texts(readView(ctx, t, owner)); !reflect.DeepEqual(got, []string{"hello"}) {
		t.Fatalf("owner view: %v", got)
	}

	send(ctx, t, viewer, proto.InboundTypeView, proto.RoomData{Room: "r1"})
	if view := readView(ctx, t, viewer); view.Screen != "password_prompt" {
		t.Fatalf("viewer should see the prompt: %+v", view)
	}

	send(ctx, t, viewer, proto.InboundTypeEnter, proto.PasswordData{Room: "r1", Password: strPtr("ABC")})
	view := readView(ctx, t, viewer)
	if view.Unlocked || !reflect.DeepEqual(texts(view), []string{"olleh"}) {
		t.Fatalf("locked viewer view: %+v", view)
	}

	send(ctx, t, viewer, proto.InboundTypeEnter, proto.PasswordData{Room: "r1", Password: strPtr("abc")})
	view = readView(ctx, t, viewer)
	if !view.Unlocked || !reflect.DeepEqual(texts(view), []string{"hello"}) {
		t.Fatalf("unlocked viewer view: %+v", view)
	}
}

func TestWebSocketProtocolErrors(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dialScreen(ctx, t, ts, "")

	send(ctx, t, conn, "hello", proto.RoomData{Room: "r1"})
	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %+v", out)
	}

	send(ctx, t, conn, proto.InboundTypeEnter, proto.RoomData{Room: "r1"})
	out = readOutbound(ctx, t, conn)
	if out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %+v", out)
	}

	// The connection keeps working after protocol errors.
	send(ctx, t, conn, proto.InboundTypeView, proto.RoomData{Room: "r1"})
	readView(ctx, t, conn)
}

func TestWebSocketRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.CommandsPerMinute = 1
	ts := startTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dialScreen(ctx, t, ts, "")

	send(ctx, t, conn, proto.InboundTypeView, proto.RoomData{Room: "r1"})
	readView(ctx, t, conn)

	send(ctx, t, conn, proto.InboundTypeView, proto.RoomData{Room: "r1"})
	out := readOutbound(ctx, t, conn)
	if out.Error == nil || out.Error.Code != "rate_limited" {
		t.Fatalf("expected rate_limited, got %+v", out)
	}
}

func TestWebSocketReusesRESTSession(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := ts.Client().Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer resp.Body.Close()
	var sess SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	conn, sessionID := dialScreen(ctx, t, ts, "?token="+sess.Token)
	if sessionID != sess.SessionID {
		t.Fatalf("expected session %q, got %q", sess.SessionID, sessionID)
	}

	send(ctx, t, conn, proto.InboundTypeSetPassword, proto.PasswordData{Room: "r1", Password: strPtr("pw")})
	readView(ctx, t, conn)

	// The REST side sees the unlock done over the websocket.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/rooms/r1", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	viewResp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	defer viewResp.Body.Close()
	var view proto.ViewData
	if err := json.NewDecoder(viewResp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if !view.Unlocked {
		t.Fatalf("expected unlocked view over REST: %+v", view)
	}
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=garbage"
	_, resp, err := websocket.Dial(ctx, wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}
