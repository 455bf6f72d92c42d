// internal/poller/types.go
package poller

import (
	"time"

	"github.com/polypheny/polyfier-monitor/internal/status"
)

// Response is the raw result of a single GET.
type Response struct {
	StatusCode int
	Body       []byte
}

// LogResult is produced by one log poll cycle.
type LogResult struct {
	At         time.Time
	StatusCode int

	// Appended is the number of bytes added to the log element.
	// 0 on No Content, on an empty body and on failure.
	Appended int

	Err error // non-nil means the poll cycle failed
}

// StatusResult is produced by one status poll cycle.
type StatusResult struct {
	At       time.Time
	Snapshot status.Snapshot // zero unless Err == nil
	Err      error
}

// LogStats are running totals for a log poller.
type LogStats struct {
	Requests      uint64
	Failures      uint64
	AppendedBytes uint64
}
