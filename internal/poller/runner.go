// internal/poller/runner.go
package poller

import (
	"context"
	"log"

	"github.com/dustin/go-humanize"
)

// Task adapts the log poller to a scheduler tick.
// Failures are logged and abort only the current cycle.
func (p *LogPoller) Task(logger *log.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		res := p.PollOnce(ctx)
		if res.Err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Printf("log poll failed (path=%s): %v", p.cfg.Path, res.Err)
			return
		}
		if res.Appended > 0 {
			st := p.Stats()
			logger.Printf(
				"log poll appended %s (total=%s requests=%s)",
				humanize.Bytes(uint64(res.Appended)),
				humanize.Bytes(st.AppendedBytes),
				humanize.Comma(int64(st.Requests)),
			)
		}
	}
}

// Task adapts the status poller to a scheduler tick.
func (p *StatusPoller) Task(logger *log.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		res := p.PollOnce(ctx)
		if res.Err != nil && ctx.Err() == nil {
			logger.Printf("status poll failed (path=%s): %v", p.cfg.Path, res.Err)
		}
	}
}
