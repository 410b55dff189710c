package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/auth"
	"github.com/studyhub/studyhub-server/internal/config"
	"github.com/studyhub/studyhub-server/internal/core"
	"github.com/studyhub/studyhub-server/internal/moderation"
	"github.com/studyhub/studyhub-server/internal/proto"
	"github.com/studyhub/studyhub-server/internal/store"
	"github.com/studyhub/studyhub-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store) *auth.Service {
	t.Helper()

	return auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	})
}

// startTestServer builds the full HTTP stack over an in-memory store and
// returns the httptest server plus a cancel for the hub goroutine.
func startTestServer(t *testing.T) (*httptest.Server, context.CancelFunc) {
	ts, _, cancel := startTestServerWithStore(t)
	return ts, cancel
}

// startTestServerWithStore additionally exposes the backing store so tests
// can seed or inspect persisted rows.
func startTestServerWithStore(t *testing.T) (*httptest.Server, store.Store, context.CancelFunc) {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st)

	disabledLogger := zerolog.New(nil)

	hub := core.NewHub(nil, &disabledLogger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(cfg, ServerDeps{
		Hub:        hub,
		Auth:       authService,
		Moderation: moderation.NewService(cfg.Moderation, st, nil, &disabledLogger),
		Reminders:  st,
		Messages:   st,
		Log:        &disabledLogger,
	})

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st, cancel
}

// dialWS opens a websocket connection against the test server.
func dialWS(ctx context.Context, t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func sendInbound(ctx context.Context, t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// wireOutbound mirrors proto.Outbound with raw data so tests can decode the
// payload per event type.
type wireOutbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntil consumes outbound messages until one of the wanted type arrives.
// Presence snapshots interleave with everything else, so tests skip past
// types they do not assert on.
func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, msgType string) wireOutbound {
	t.Helper()

	for {
		var out wireOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %s: %v", msgType, err)
		}
		if out.Type == msgType {
			return out
		}
	}
}

func decodeData(t *testing.T, out wireOutbound, v any) {
	t.Helper()

	if err := json.Unmarshal(out.Data, v); err != nil {
		t.Fatalf("unmarshal %s data: %v", out.Type, err)
	}
}
