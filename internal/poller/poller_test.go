// internal/poller/poller_test.go
package poller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/polypheny/polyfier-monitor/internal/config"
	"github.com/polypheny/polyfier-monitor/internal/status"
)

// ---- fakes ----

type fakeClient struct {
	responses []Response
	errs      []error
	calls     []string
}

func (f *fakeClient) Get(ctx context.Context, path string) (Response, error) {
	i := len(f.calls)
	f.calls = append(f.calls, path)
	if i < len(f.errs) && f.errs[i] != nil {
		return Response{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return Response{StatusCode: http.StatusNoContent}, nil
}

type fakeLogSink struct {
	text strings.Builder
	n    int
}

func (f *fakeLogSink) AppendLog(text string) {
	f.text.WriteString(text)
	f.n++
}

type fieldWrite struct {
	text  string
	color status.Color
}

type fakeStatusSink struct {
	fields map[string]fieldWrite
	writes int
}

func (f *fakeStatusSink) SetField(element, text string, c status.Color) {
	if f.fields == nil {
		f.fields = map[string]fieldWrite{}
	}
	f.fields[element] = fieldWrite{text: text, color: c}
	f.writes++
}

// cancelingClient cancels the poll's context while the request is in
// flight and then answers anyway, like a server that replies late.
type cancelingClient struct {
	cancel context.CancelFunc
	resp   Response
}

func (c *cancelingClient) Get(ctx context.Context, path string) (Response, error) {
	c.cancel()
	return c.resp, nil
}

func ok(body string) Response {
	return Response{StatusCode: http.StatusOK, Body: []byte(body)}
}

const statusBody = `{"server-status":"%s","database-status":"CONNECTED","docker-status":"CONNECTED",` +
	`"polyfier-phase":"IDLE","polypheny-control":"UNKNOWN","polypheny-db":"CONNECTED","defcon":"%s"}`

func statusJSON(server, defcon string) Response {
	return ok(fmt.Sprintf(statusBody, server, defcon))
}

// ---- log poller ----

func TestLogPoll_ConcatenatesInArrivalOrder(t *testing.T) {
	fc := &fakeClient{responses: []Response{
		ok("a\n"),
		{StatusCode: http.StatusNoContent},
		ok("b\n"),
		ok("a\n"), // repeated content is appended again
	}}
	sink := &fakeLogSink{}

	p, err := NewLogPoller(Config{Path: "/request/log.json", Interval: time.Second}, fc, sink)
	if err != nil {
		t.Fatalf("NewLogPoller err=%v", err)
	}

	for i := 0; i < 4; i++ {
		if res := p.PollOnce(context.Background()); res.Err != nil {
			t.Fatalf("PollOnce %d err=%v", i, res.Err)
		}
	}

	if got := sink.text.String(); got != "a\nb\na\n" {
		t.Fatalf("log text: got=%q want=%q", got, "a\nb\na\n")
	}
	if sink.n != 3 {
		t.Fatalf("expected 3 appends, got %d", sink.n)
	}
	st := p.Stats()
	if st.Requests != 4 || st.AppendedBytes != 6 || st.Failures != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	for _, c := range fc.calls {
		if c != "/request/log.json" {
			t.Fatalf("unexpected path %q", c)
		}
	}
}

func TestLogPoll_NoContentAppendsNothing(t *testing.T) {
	fc := &fakeClient{responses: []Response{{StatusCode: http.StatusNoContent, Body: []byte("ignored")}}}
	sink := &fakeLogSink{}
	p, _ := NewLogPoller(Config{Path: "/l", Interval: time.Second}, fc, sink)

	res := p.PollOnce(context.Background())
	if res.Err != nil || res.Appended != 0 || sink.n != 0 {
		t.Fatalf("expected no-op, got res=%+v appends=%d", res, sink.n)
	}
}

func TestLogPoll_UnexpectedStatus(t *testing.T) {
	fc := &fakeClient{responses: []Response{{StatusCode: http.StatusInternalServerError, Body: []byte("boom")}}}
	sink := &fakeLogSink{}
	p, _ := NewLogPoller(Config{Path: "/l", Interval: time.Second}, fc, sink)

	res := p.PollOnce(context.Background())
	if !errors.Is(res.Err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", res.Err)
	}
	if sink.n != 0 {
		t.Fatalf("error body must not be appended")
	}
}

func TestLogPoll_TransportFailure(t *testing.T) {
	fc := &fakeClient{errs: []error{errors.New("connection refused")}}
	sink := &fakeLogSink{}
	p, _ := NewLogPoller(Config{Path: "/l", Interval: time.Second}, fc, sink)

	if res := p.PollOnce(context.Background()); res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if p.Stats().Failures != 1 {
		t.Fatalf("failure not counted")
	}
}

func TestLogPoll_LateBodyAfterCancelDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fc := &cancelingClient{cancel: cancel, resp: ok("late line\n")}
	sink := &fakeLogSink{}
	p, _ := NewLogPoller(Config{Path: "/l", Interval: time.Second}, fc, sink)

	res := p.PollOnce(ctx)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err: got=%v want=%v", res.Err, context.Canceled)
	}
	if sink.n != 0 || res.Appended != 0 {
		t.Fatalf("appended after cancel: sink=%q appended=%d", sink.text.String(), res.Appended)
	}
	if p.Stats().AppendedBytes != 0 {
		t.Fatalf("appended bytes: got=%d want=0", p.Stats().AppendedBytes)
	}
}

func TestBuild_CancelAbortsStalledRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("late line\n"))
	}))
	defer srv.Close()
	defer close(release)

	cfg := config.Default(srv.URL)
	config.Normalize(cfg)

	logSink := &fakeLogSink{}
	lp, _, closeHTTP, err := Build(cfg.Monitor, logSink, &fakeStatusSink{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer closeHTTP()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	res := lp.PollOnce(ctx)
	if d := time.Since(start); d > time.Second {
		t.Fatalf("PollOnce returned after %s, want prompt return on cancel", d)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err: got=%v want=%v", res.Err, context.Canceled)
	}
	if logSink.n != 0 {
		t.Fatalf("appended after cancel: %q", logSink.text.String())
	}
}

func TestLogTask_LogsFailures(t *testing.T) {
	fc := &fakeClient{errs: []error{errors.New("connection refused")}}
	p, _ := NewLogPoller(Config{Path: "/l", Interval: time.Second}, fc, &fakeLogSink{})

	var buf bytes.Buffer
	p.Task(log.New(&buf, "", 0))(context.Background())

	if !strings.Contains(buf.String(), "log poll failed (path=/l)") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestNew_Validation(t *testing.T) {
	fc := &fakeClient{}
	if _, err := NewLogPoller(Config{Path: "", Interval: time.Second}, fc, &fakeLogSink{}); err == nil {
		t.Fatalf("expected path error")
	}
	if _, err := NewLogPoller(Config{Path: "/l", Interval: 0}, fc, &fakeLogSink{}); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := NewStatusPoller(Config{Path: "/s", Interval: time.Second}, nil, &fakeStatusSink{}); err == nil {
		t.Fatalf("expected client error")
	}
}

// ---- status poller ----

func TestStatusPoll_Colorization(t *testing.T) {
	fc := &fakeClient{responses: []Response{
		statusJSON("RUNNING", "3"),
		statusJSON("STOPPED", "5"),
	}}
	sink := &fakeStatusSink{}
	p, err := NewStatusPoller(Config{Path: "/request/status-update.json", Interval: time.Second}, fc, sink)
	if err != nil {
		t.Fatalf("NewStatusPoller err=%v", err)
	}

	if res := p.PollOnce(context.Background()); res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if got := sink.fields["server-status"]; got.text != "RUNNING" || got.color != status.ColorGreen {
		t.Fatalf("server-status: got=%+v", got)
	}
	if got := sink.fields["defcon"]; got.color != status.ColorOrange {
		t.Fatalf("defcon: got=%+v", got)
	}

	if res := p.PollOnce(context.Background()); res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if got := sink.fields["server-status"]; got.text != "STOPPED" || got.color != status.ColorRed {
		t.Fatalf("server-status: got=%+v", got)
	}
	if got := sink.fields["defcon"]; got.color != status.ColorGreen {
		t.Fatalf("defcon: got=%+v", got)
	}

	if _, ok := sink.fields["polypheny-control-status"]; !ok {
		t.Fatalf("polypheny-control must render into polypheny-control-status")
	}
	if _, ok := sink.fields["pdb-client-status"]; !ok {
		t.Fatalf("polypheny-db must render into pdb-client-status")
	}
}

func TestStatusPoll_DecodeFailureLeavesSinkUntouched(t *testing.T) {
	fc := &fakeClient{responses: []Response{
		ok(`{"server-status":"RUNNING"}`),
		ok(`not json`),
	}}
	sink := &fakeStatusSink{}
	p, _ := NewStatusPoller(Config{Path: "/s", Interval: time.Second}, fc, sink)

	for i := 0; i < 2; i++ {
		if res := p.PollOnce(context.Background()); res.Err == nil {
			t.Fatalf("cycle %d: expected error, got nil", i)
		}
	}
	if sink.writes != 0 {
		t.Fatalf("sink written on failed decode: %d writes", sink.writes)
	}
}

func TestStatusPoll_LateSnapshotAfterCancelDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fc := &cancelingClient{cancel: cancel, resp: statusJSON("RUNNING", "3")}
	sink := &fakeStatusSink{}
	p, _ := NewStatusPoller(Config{Path: "/s", Interval: time.Second}, fc, sink)

	if res := p.PollOnce(ctx); !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err: got=%v want=%v", res.Err, context.Canceled)
	}
	if sink.writes != 0 {
		t.Fatalf("sink written after cancel: %d writes", sink.writes)
	}
}

func TestStatusPoll_NonOKStatus(t *testing.T) {
	fc := &fakeClient{responses: []Response{{StatusCode: http.StatusServiceUnavailable}}}
	p, _ := NewStatusPoller(Config{Path: "/s", Interval: time.Second}, fc, &fakeStatusSink{})

	if res := p.PollOnce(context.Background()); !errors.Is(res.Err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", res.Err)
	}
}
