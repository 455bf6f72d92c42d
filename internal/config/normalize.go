// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultLogPath     = "/request/log.json"
	DefaultStatusPath  = "/request/status-update.json"
	DefaultSocketPath  = "/ws"
	DefaultClientCode  = "BROWSER"
	DefaultMessageCode = "BROWSER_SYS"

	DefaultLogIntervalMs       = 5000
	DefaultStatusIntervalMs    = 10000
	DefaultCountdownIntervalMs = 1000
	DefaultHeartbeatMs         = 5000

	// DefaultCountdownTarget is read in the configured location.
	DefaultCountdownTarget = "February 28, 2023 00:00:00"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Monitor

	m.Origin = strings.TrimSuffix(m.Origin, "/")

	if m.Log.Path == "" {
		m.Log.Path = DefaultLogPath
	}
	if m.Log.IntervalMs == 0 {
		m.Log.IntervalMs = DefaultLogIntervalMs
	}

	if m.Status.Path == "" {
		m.Status.Path = DefaultStatusPath
	}
	if m.Status.IntervalMs == 0 {
		m.Status.IntervalMs = DefaultStatusIntervalMs
	}

	if m.Countdown.Target == "" {
		m.Countdown.Target = DefaultCountdownTarget
	}
	if m.Countdown.IntervalMs == 0 {
		m.Countdown.IntervalMs = DefaultCountdownIntervalMs
	}

	if m.Socket.Path == "" {
		m.Socket.Path = DefaultSocketPath
	}
	if m.Socket.HeartbeatMs == 0 {
		m.Socket.HeartbeatMs = DefaultHeartbeatMs
	}
	if m.Socket.ClientCode == "" {
		m.Socket.ClientCode = DefaultClientCode
	}
	if m.Socket.MessageCode == "" {
		m.Socket.MessageCode = DefaultMessageCode
	}

	if m.View.Mode == "" {
		m.View.Mode = ViewTUI
	}

	// http.timeout_ms stays 0 (no timeout) unless set.
}
