// internal/monitor/monitor_test.go
package monitor

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polypheny/polyfier-monitor/internal/config"
	"github.com/polypheny/polyfier-monitor/internal/countdown"
	"github.com/polypheny/polyfier-monitor/internal/socket"
	"github.com/polypheny/polyfier-monitor/internal/status"
	"github.com/polypheny/polyfier-monitor/internal/view"
)

// ---- fake server ----

const runningStatus = `{"server-status":"RUNNING","database-status":"CONNECTED",` +
	`"docker-status":"CONNECTED","polyfier-phase":"IDLE","polypheny-control":"DISCONNECTED",` +
	`"polypheny-db":"CONNECTED","defcon":"3"}`

type fakeServer struct {
	mu        sync.Mutex
	logBodies []string
	logHits   atomic.Int64
	wsFrames  atomic.Int64
	wsSend    []byte
	stall     chan struct{} // when set, log requests hang until closed
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case config.DefaultLogPath:
		f.logHits.Add(1)
		if f.stall != nil {
			select {
			case <-f.stall:
			case <-r.Context().Done():
			}
		}
		f.mu.Lock()
		var body string
		if len(f.logBodies) > 0 {
			body, f.logBodies = f.logBodies[0], f.logBodies[1:]
		}
		f.mu.Unlock()
		if body == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = io.WriteString(w, body)

	case config.DefaultStatusPath:
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, runningStatus)

	case config.DefaultSocketPath:
		up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if f.wsSend != nil {
			_ = conn.WriteMessage(websocket.TextMessage, f.wsSend)
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			f.wsFrames.Add(1)
		}

	default:
		http.NotFound(w, r)
	}
}

func testConfig(origin string, socketOn bool) *config.Config {
	cfg := config.Default(origin)
	m := &cfg.Monitor
	m.Log.IntervalMs = 20
	m.Status.IntervalMs = 20
	m.Countdown.IntervalMs = 10
	m.Countdown.Target = "2100-01-01T00:00:00Z"
	m.Socket.HeartbeatMs = 20
	m.Socket.Enabled = &socketOn
	m.View.Mode = config.ViewNone
	config.Normalize(cfg)
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func start(t *testing.T, mon *Monitor) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("Run did not return after cancel")
		}
	}
}

var quiet = log.New(io.Discard, "", 0)

// ---- tests ----

func TestMonitor_LogAndStatus(t *testing.T) {
	fs := &fakeServer{logBodies: []string{"line1\n", "", "line2\n"}}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	mem := view.NewMemory()
	mem.AppendLog("stale\n")

	mon, err := New(testConfig(srv.URL, false), mem, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := start(t, mon)

	waitFor(t, "log text", func() bool { return mem.Log() == "line1\nline2\n" })
	waitFor(t, "status fields", func() bool {
		_, ok := mem.Field(status.ElementDefcon)
		return ok
	})
	stop()

	checks := []struct {
		element string
		text    string
		color   status.Color
	}{
		{status.ElementServerStatus, "RUNNING", status.ColorGreen},
		{status.ElementDefcon, "3", status.ColorOrange},
		{status.ElementPolyphenyControl, "DISCONNECTED", status.ColorRed},
		{status.ElementPolyphenyDB, "CONNECTED", status.ColorGreen},
	}
	for _, c := range checks {
		e, _ := mem.Field(c.element)
		if e.Text != c.text || e.Color != c.color {
			t.Fatalf("%s: got=%+v want text=%s color=%v", c.element, e, c.text, c.color)
		}
	}

	if got := mon.LogStats().AppendedBytes; got != uint64(len("line1\nline2\n")) {
		t.Fatalf("appended bytes: got=%d want=%d", got, len("line1\nline2\n"))
	}
}

func TestMonitor_ExpiredCountdownStopsLogPolling(t *testing.T) {
	fs := &fakeServer{}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	cfg := testConfig(srv.URL, false)
	cfg.Monitor.Log.IntervalMs = 200

	mem := view.NewMemory()
	mon, err := New(cfg, mem, quiet, WithClock(func() time.Time {
		return time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := start(t, mon)

	waitFor(t, "expired countdown", func() bool { return mem.Countdown() == countdown.Expired })
	waitFor(t, "log task stopped", func() bool { return !mon.Controller().Running(TaskLog) })

	time.Sleep(300 * time.Millisecond)
	if !mon.Controller().Running(TaskStatus) {
		t.Fatalf("status task should keep running")
	}
	stop()

	if got := fs.logHits.Load(); got != 0 {
		t.Fatalf("log requests after expiry: got=%d want=0", got)
	}
}

func TestMonitor_RunReturnsWithStalledLogRequest(t *testing.T) {
	fs := &fakeServer{logBodies: []string{"late line\n"}, stall: make(chan struct{})}
	srv := httptest.NewServer(fs)
	defer srv.Close()
	defer close(fs.stall)

	mem := view.NewMemory()
	mon, err := New(testConfig(srv.URL, false), mem, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	waitFor(t, "log request in flight", func() bool { return fs.logHits.Load() > 0 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run blocked on a stalled log request")
	}
	if got := mem.Log(); got != "" {
		t.Fatalf("log after shutdown: got=%q want empty", got)
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	messages []socket.Inbound
}

func (r *recordingHandler) OnOpen(string) {}
func (r *recordingHandler) OnClose(error) {}
func (r *recordingHandler) OnError(error) {}

func (r *recordingHandler) OnMessage(m socket.Inbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recordingHandler) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func TestMonitor_SocketHeartbeats(t *testing.T) {
	fs := &fakeServer{wsSend: []byte(`{"log":"x"}`)}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	h := &recordingHandler{}
	mon, err := New(testConfig(srv.URL, true), view.NewMemory(), quiet, WithSocketHandler(h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := start(t, mon)

	waitFor(t, "heartbeats", func() bool { return fs.wsFrames.Load() >= 2 })
	waitFor(t, "inbound message", func() bool { return h.count() == 1 })
	stop()

	h.mu.Lock()
	m := h.messages[0]
	h.mu.Unlock()
	if m.Kind != socket.KindLog || m.Text != "x" {
		t.Fatalf("message: got kind=%v text=%q", m.Kind, m.Text)
	}
}

func TestNew_RejectsNilView(t *testing.T) {
	if _, err := New(testConfig("http://localhost", false), nil, quiet); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
