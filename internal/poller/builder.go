// internal/poller/builder.go
package poller

import (
	"context"
	"time"

	cfg "github.com/polypheny/polyfier-monitor/internal/config"
	"github.com/polypheny/polyfier-monitor/internal/poller/httpget"
)

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, path string) (Response, error)

func (f ClientFunc) Get(ctx context.Context, path string) (Response, error) {
	return f(ctx, path)
}

// Build constructs both pollers over one shared HTTP client.
// Config must be validated and normalized.
// No retries, no loops, no semantics.
func Build(m cfg.MonitorConfig, logSink LogSink, statusSink StatusSink) (*LogPoller, *StatusPoller, func() error, error) {
	hc, err := httpget.New(httpget.Config{
		Origin:  m.Origin,
		Timeout: time.Duration(m.HTTP.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	client := ClientFunc(func(ctx context.Context, path string) (Response, error) {
		code, body, err := hc.Get(ctx, path)
		if err != nil {
			return Response{}, err
		}
		return Response{StatusCode: code, Body: body}, nil
	})

	lp, err := NewLogPoller(
		Config{
			Path:     m.Log.Path,
			Interval: time.Duration(m.Log.IntervalMs) * time.Millisecond,
		},
		client,
		logSink,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	sp, err := NewStatusPoller(
		Config{
			Path:     m.Status.Path,
			Interval: time.Duration(m.Status.IntervalMs) * time.Millisecond,
		},
		client,
		statusSink,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	return lp, sp, hc.Close, nil
}
