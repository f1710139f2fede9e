package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/core"
	"github.com/vovakirdan/roomgate/internal/proto"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.SessionSecret = "test-secret"
	cfg.CommandsPerMinute = 0
	return &cfg
}

// newTestHandler starts a hub and returns the router serving it.
func newTestHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	hub := core.NewHub(nil, nil, cfg.SessionTTL)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	disabledLogger := zerolog.New(nil)
	return NewServer(hub, cfg, &disabledLogger).Handler
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(h, req)
}

func doRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func openTestSession(t *testing.T, h http.Handler) SessionResponse {
	t.Helper()

	resp := doJSON(t, h, http.MethodPost, "/api/sessions", "", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("open session: status %d: %s", resp.Code, resp.Body.String())
	}

	var sess SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if sess.Token == "" || sess.SessionID == "" {
		t.Fatalf("incomplete session response: %+v", sess)
	}
	return sess
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) proto.ViewData {
	t.Helper()

	var view proto.ViewData
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal view: %v (%s)", err, resp.Body.String())
	}
	return view
}

func texts(view proto.ViewData) []string {
	out := make([]string, 0, len(view.Lines))
	for _, l := range view.Lines {
		out = append(out, l.Text)
	}
	return out
}

func strPtr(s string) *string { return &s }
