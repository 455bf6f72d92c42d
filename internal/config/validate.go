// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Accepted view modes.
const (
	ViewTUI     = "tui"
	ViewConsole = "console"
	ViewNone    = "none"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted everywhere Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	m := cfg.Monitor

	// ------------------------------------------------------------
	// ORIGIN
	// ------------------------------------------------------------

	if m.Origin == "" {
		return fmt.Errorf("monitor.origin is required")
	}
	u, err := url.Parse(m.Origin)
	if err != nil {
		return fmt.Errorf("monitor.origin %q: %v", m.Origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("monitor.origin %q: scheme must be http or https", m.Origin)
	}
	if u.Host == "" {
		return fmt.Errorf("monitor.origin %q: host is required", m.Origin)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("monitor.origin %q: must not carry a path", m.Origin)
	}

	// ------------------------------------------------------------
	// TIMINGS
	// ------------------------------------------------------------

	timings := []struct {
		name string
		v    int
	}{
		{"http.timeout_ms", m.HTTP.TimeoutMs},
		{"log.interval_ms", m.Log.IntervalMs},
		{"status.interval_ms", m.Status.IntervalMs},
		{"countdown.interval_ms", m.Countdown.IntervalMs},
		{"socket.heartbeat_ms", m.Socket.HeartbeatMs},
	}
	for _, t := range timings {
		if t.v < 0 {
			return fmt.Errorf("monitor.%s must be >= 0, got %d", t.name, t.v)
		}
	}

	// ------------------------------------------------------------
	// PATHS
	// ------------------------------------------------------------

	paths := []struct {
		name string
		v    string
	}{
		{"log.path", m.Log.Path},
		{"status.path", m.Status.Path},
		{"socket.path", m.Socket.Path},
	}
	for _, p := range paths {
		if p.v != "" && !strings.HasPrefix(p.v, "/") {
			return fmt.Errorf("monitor.%s %q must start with /", p.name, p.v)
		}
	}

	// ------------------------------------------------------------
	// COUNTDOWN TARGET
	// ------------------------------------------------------------

	if m.Countdown.Target != "" || m.Countdown.Location != "" {
		target := m.Countdown.Target
		if target == "" {
			target = DefaultCountdownTarget
		}
		if _, err := ParseTarget(target, m.Countdown.Location); err != nil {
			return fmt.Errorf("monitor.countdown: %v", err)
		}
	}

	// ------------------------------------------------------------
	// SOCKET CODES
	// ------------------------------------------------------------

	if m.Socket.ClientCode != "" && m.Socket.ClientCode != DefaultClientCode {
		return fmt.Errorf(
			"monitor.socket.client_code %q: only %q is supported",
			m.Socket.ClientCode,
			DefaultClientCode,
		)
	}
	switch m.Socket.MessageCode {
	case "", "BROWSER_SYS", "BROWSER_LOG":
	default:
		return fmt.Errorf(
			"monitor.socket.message_code %q: must be BROWSER_SYS or BROWSER_LOG",
			m.Socket.MessageCode,
		)
	}

	// ------------------------------------------------------------
	// VIEW
	// ------------------------------------------------------------

	switch m.View.Mode {
	case "", ViewTUI, ViewConsole, ViewNone:
	default:
		return fmt.Errorf("monitor.view.mode %q: must be tui, console or none", m.View.Mode)
	}

	return nil
}
