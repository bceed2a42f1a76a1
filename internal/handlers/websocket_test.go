package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pacemaker_dcm/internal/device"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseChamber unit tests ---

func TestParseChamber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A", device.FilterAtrium},
		{"v", device.FilterVentricle},
		{" both ", device.FilterBoth},
		{"", device.FilterBoth},
		{"X", device.FilterBoth},
	}
	for _, tc := range cases {
		if got := parseChamber(tc.in); got != tc.want {
			t.Fatalf("parseChamber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// --- websocket integration tests ---

func newEgramServer(s *service.Service) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws/egram", h.wsEgram)
	return httptest.NewServer(r)
}

func dialEgram(t *testing.T, srv *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/egram"
	u.RawQuery = rawQuery
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestWebSocket_EgramStream(t *testing.T) {
	samples := make(chan models.EgramSample, 4)
	samples <- models.EgramSample{Chamber: "A", TimestampMS: 0, ValueMV: 0.1}
	samples <- models.EgramSample{Chamber: "V", TimestampMS: 10, ValueMV: -0.4}
	tel := &mockTelemetry{samples: samples}
	s := &service.Service{Telemetry: tel}

	srv := newEgramServer(s)
	defer srv.Close()

	conn := dialEgram(t, srv, "chamber=A")
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if env.Type != "egram" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var sample models.EgramSample
	if err := json.Unmarshal(env.Data, &sample); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if sample.Chamber != "A" || sample.ValueMV != 0.1 {
		t.Fatalf("unexpected sample: %+v", sample)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "egram" {
		t.Fatalf("expected type=egram, got %+v", env)
	}

	if tel.startCalls != 1 || tel.lastChamber != device.FilterAtrium {
		t.Fatalf("start calls=%d chamber=%q", tel.startCalls, tel.lastChamber)
	}
}

func TestWebSocket_StartFailure_SendsErrorAndCloses(t *testing.T) {
	tel := &mockTelemetry{startErr: errors.New("link closed"), samples: make(chan models.EgramSample)}
	s := &service.Service{Telemetry: tel}

	srv := newEgramServer(s)
	defer srv.Close()

	conn := dialEgram(t, srv, "")
	defer conn.Close()

	type envelope struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read error envelope: %v", err)
	}
	if env.Type != "error" || env.Error == "" {
		t.Fatalf("expected error envelope, got %+v", env)
	}

	// Connection should close after the error envelope.
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
	if tel.stopCount() != 0 {
		t.Fatalf("stop should not run for a stream that never started, calls=%d", tel.stopCount())
	}
}

func TestWebSocket_BusyStream_AttachesWithoutStopping(t *testing.T) {
	samples := make(chan models.EgramSample, 1)
	samples <- models.EgramSample{Chamber: "V", TimestampMS: 5, ValueMV: 0.2}
	tel := &mockTelemetry{startErr: device.ErrBusy, samples: samples}
	s := &service.Service{Telemetry: tel}

	srv := newEgramServer(s)
	defer srv.Close()

	conn := dialEgram(t, srv, "chamber=V")

	type envelope struct {
		Type string `json:"type"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read attached sample: %v", err)
	}
	if env.Type != "egram" {
		t.Fatalf("expected egram envelope, got %+v", env)
	}

	conn.Close()
	time.Sleep(100 * time.Millisecond)
	if tel.stopCount() != 0 {
		t.Fatalf("attached client must not stop the shared stream, calls=%d", tel.stopCount())
	}
}

func TestWebSocket_DisconnectStopsWithLiveContext(t *testing.T) {
	samples := make(chan models.EgramSample, 1)
	samples <- models.EgramSample{Chamber: "A", TimestampMS: 0, ValueMV: 0.1}
	tel := &mockTelemetry{samples: samples}
	s := &service.Service{Telemetry: tel}

	srv := newEgramServer(s)
	defer srv.Close()

	conn := dialEgram(t, srv, "chamber=A")

	type envelope struct {
		Type string `json:"type"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read sample: %v", err)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for tel.stopCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never stopped after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The shutdown must run on a live context so the stop event can still
	// be appended; the request context is dead by then.
	if err := tel.stopCtxErr(0); err != nil {
		t.Fatalf("stop received a canceled context: %v", err)
	}
}
