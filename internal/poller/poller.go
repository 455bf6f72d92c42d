// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/polypheny/polyfier-monitor/internal/status"
)

// ErrUnexpectedStatus is wrapped when the server answers with a status code
// the poller has no rule for.
var ErrUnexpectedStatus = errors.New("poller: unexpected status")

// Client abstracts the HTTP GET the pollers need.
// Paths are absolute and resolved against the client's origin.
type Client interface {
	Get(ctx context.Context, path string) (Response, error)
}

// LogSink receives appended log text.
type LogSink interface {
	AppendLog(text string)
}

// StatusSink receives rendered status fields.
type StatusSink interface {
	SetField(element, text string, c status.Color)
}

// Config is the minimal runtime config a poller needs.
type Config struct {
	Path     string
	Interval time.Duration
}

func (c Config) validate(kind string) error {
	if c.Path == "" {
		return fmt.Errorf("poller: %s path required", kind)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("poller: %s interval must be > 0", kind)
	}
	return nil
}

// ---- LOG ----

// LogPoller is a dumb, clock-driven log tail.
// It never dedupes: whatever the server returns is appended.
type LogPoller struct {
	cfg    Config
	client Client
	sink   LogSink

	requests atomic.Uint64
	failures atomic.Uint64
	appended atomic.Uint64
}

// NewLogPoller creates a log poller with immutable config.
func NewLogPoller(cfg Config, client Client, sink LogSink) (*LogPoller, error) {
	if err := cfg.validate("log"); err != nil {
		return nil, err
	}
	if client == nil || sink == nil {
		return nil, errors.New("poller: log client and sink required")
	}
	return &LogPoller{cfg: cfg, client: client, sink: sink}, nil
}

// Interval returns the configured tick period.
func (p *LogPoller) Interval() time.Duration { return p.cfg.Interval }

// PollOnce performs exactly one log poll cycle.
func (p *LogPoller) PollOnce(ctx context.Context) LogResult {
	res := LogResult{At: time.Now()}
	p.requests.Add(1)

	resp, err := p.client.Get(ctx, p.cfg.Path)
	if err != nil {
		p.failures.Add(1)
		res.Err = err
		return res
	}
	res.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return res

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		p.failures.Add(1)
		res.Err = fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, p.cfg.Path)
		return res
	}

	if len(resp.Body) == 0 {
		return res
	}

	// A body that arrives after cancellation is dropped.
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	p.sink.AppendLog(string(resp.Body))
	res.Appended = len(resp.Body)
	p.appended.Add(uint64(res.Appended))
	return res
}

// Stats returns running totals.
func (p *LogPoller) Stats() LogStats {
	return LogStats{
		Requests:      p.requests.Load(),
		Failures:      p.failures.Load(),
		AppendedBytes: p.appended.Load(),
	}
}

// ---- STATUS ----

// StatusPoller fetches, decodes and renders one status snapshot per cycle.
type StatusPoller struct {
	cfg    Config
	client Client
	sink   StatusSink
}

// NewStatusPoller creates a status poller with immutable config.
func NewStatusPoller(cfg Config, client Client, sink StatusSink) (*StatusPoller, error) {
	if err := cfg.validate("status"); err != nil {
		return nil, err
	}
	if client == nil || sink == nil {
		return nil, errors.New("poller: status client and sink required")
	}
	return &StatusPoller{cfg: cfg, client: client, sink: sink}, nil
}

// Interval returns the configured tick period.
func (p *StatusPoller) Interval() time.Duration { return p.cfg.Interval }

// PollOnce performs exactly one status poll cycle.
// All-or-nothing: a failed fetch or decode leaves the sink untouched.
func (p *StatusPoller) PollOnce(ctx context.Context) StatusResult {
	res := StatusResult{At: time.Now()}

	resp, err := p.client.Get(ctx, p.cfg.Path)
	if err != nil {
		res.Err = err
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, p.cfg.Path)
		return res
	}

	snap, err := status.Decode(resp.Body)
	if err != nil {
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	// Commit only after a full decode
	for _, f := range snap.Fields() {
		p.sink.SetField(f.Element, f.Text, f.Color)
	}
	res.Snapshot = snap
	return res
}
