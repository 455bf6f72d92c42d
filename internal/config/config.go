// internal/config/config.go
package config

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	// Origin is scheme://host[:port] of the Polyfier server.
	Origin    string          `yaml:"origin"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       PollConfig      `yaml:"log"`
	Status    PollConfig      `yaml:"status"`
	Countdown CountdownConfig `yaml:"countdown"`
	Socket    SocketConfig    `yaml:"socket"`
	View      ViewConfig      `yaml:"view"`
}

// ---- HTTP ----

type HTTPConfig struct {
	TimeoutMs int `yaml:"timeout_ms"` // 0 => no timeout
}

// ---- POLL ----

type PollConfig struct {
	Path       string `yaml:"path"`
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- COUNTDOWN ----

type CountdownConfig struct {
	Target     string `yaml:"target"`   // RFC 3339 or "January 2, 2006 15:04:05"
	Location   string `yaml:"location"` // IANA name; empty => Local
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- SOCKET ----

type SocketConfig struct {
	Enabled     *bool  `yaml:"enabled"` // nil => true
	Path        string `yaml:"path"`
	HeartbeatMs int    `yaml:"heartbeat_ms"`
	ClientCode  string `yaml:"client_code"`
	MessageCode string `yaml:"message_code"`
}

// ---- VIEW ----

type ViewConfig struct {
	Mode string `yaml:"mode"` // tui | console | none
}

// SocketEnabled reports whether the socket client should run.
func (m MonitorConfig) SocketEnabled() bool {
	return m.Socket.Enabled == nil || *m.Socket.Enabled
}
