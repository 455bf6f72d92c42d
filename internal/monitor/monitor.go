// internal/monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/polypheny/polyfier-monitor/internal/config"
	"github.com/polypheny/polyfier-monitor/internal/countdown"
	"github.com/polypheny/polyfier-monitor/internal/poller"
	"github.com/polypheny/polyfier-monitor/internal/schedule"
	"github.com/polypheny/polyfier-monitor/internal/socket"
	"github.com/polypheny/polyfier-monitor/internal/view"
)

// Task names registered with the controller.
const (
	TaskLog       = "log"
	TaskCountdown = "countdown"
	TaskStatus    = "status"
)

// Monitor wires pollers, countdown and socket to one view.
type Monitor struct {
	cfg    config.MonitorConfig
	view   view.View
	logger *log.Logger

	ctrl      *schedule.Controller
	logs      *poller.LogPoller
	status    *poller.StatusPoller
	countdown *countdown.Countdown
	socket    *socket.Client // nil when disabled

	closeHTTP func() error
}

// Option configures a Monitor.
type Option func(*options)

type options struct {
	now     func() time.Time
	handler socket.Handler
}

// WithClock replaces the countdown's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSocketHandler replaces the default logging socket handler.
func WithSocketHandler(h socket.Handler) Option {
	return func(o *options) { o.handler = h }
}

// New builds every component. cfg must be validated and normalized.
func New(cfg *config.Config, v view.View, logger *log.Logger, opts ...Option) (*Monitor, error) {
	if cfg == nil {
		return nil, errors.New("monitor: nil config")
	}
	if v == nil {
		return nil, errors.New("monitor: nil view")
	}
	if logger == nil {
		logger = log.Default()
	}

	o := options{handler: socket.LogHandler{Logger: logger}}
	for _, fn := range opts {
		fn(&o)
	}

	m := cfg.Monitor
	mon := &Monitor{
		cfg:    m,
		view:   v,
		logger: logger,
		ctrl:   schedule.NewController(),
	}

	lp, sp, closeHTTP, err := poller.Build(m, v, v)
	if err != nil {
		return nil, fmt.Errorf("monitor: pollers: %w", err)
	}
	mon.logs, mon.status, mon.closeHTTP = lp, sp, closeHTTP

	target, err := config.ParseTarget(m.Countdown.Target, m.Countdown.Location)
	if err != nil {
		_ = closeHTTP()
		return nil, fmt.Errorf("monitor: countdown: %w", err)
	}
	var cdOpts []countdown.Option
	if o.now != nil {
		cdOpts = append(cdOpts, countdown.WithClock(o.now))
	}
	mon.countdown = countdown.New(target, v, mon.expire, cdOpts...)

	if m.SocketEnabled() {
		url, err := socket.URLFor(m.Origin, m.Socket.Path)
		if err != nil {
			_ = closeHTTP()
			return nil, fmt.Errorf("monitor: socket: %w", err)
		}
		sc, err := socket.New(socket.Config{
			URL:               url,
			HeartbeatInterval: time.Duration(m.Socket.HeartbeatMs) * time.Millisecond,
			Heartbeat: socket.Heartbeat{
				ClientCode:  m.Socket.ClientCode,
				MessageCode: m.Socket.MessageCode,
			},
		}, o.handler)
		if err != nil {
			_ = closeHTTP()
			return nil, fmt.Errorf("monitor: socket: %w", err)
		}
		mon.socket = sc
	}

	return mon, nil
}

// expire stops log polling. Safe on every negative tick.
func (m *Monitor) expire() {
	if m.ctrl.Cancel(TaskLog) {
		m.logger.Printf("countdown expired (target=%s), log polling stopped", m.countdown.Target().Format(time.RFC3339))
	}
}

// Controller exposes the task controller.
func (m *Monitor) Controller() *schedule.Controller { return m.ctrl }

// LogStats returns the log poller's counters.
func (m *Monitor) LogStats() poller.LogStats { return m.logs.Stats() }

// Run clears the log, starts all tasks and the socket, and blocks until
// ctx is done. Everything is stopped before it returns.
func (m *Monitor) Run(ctx context.Context) error {
	m.view.ClearLog()

	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	tasks := []struct {
		name     string
		interval time.Duration
		fn       schedule.Func
	}{
		{TaskLog, ms(m.cfg.Log.IntervalMs), m.logs.Task(m.logger)},
		{TaskCountdown, ms(m.cfg.Countdown.IntervalMs), m.countdown.Task()},
		{TaskStatus, ms(m.cfg.Status.IntervalMs), m.status.Task(m.logger)},
	}

	for _, t := range tasks {
		if err := m.ctrl.Start(ctx, t.name, t.interval, t.fn); err != nil {
			m.ctrl.Stop()
			return fmt.Errorf("monitor: start %s: %w", t.name, err)
		}
		m.logger.Printf("task started (name=%s interval=%s)", t.name, t.interval)
	}

	var wg sync.WaitGroup
	if m.socket != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.socket.Run(ctx); err != nil {
				m.logger.Printf("socket stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()

	m.ctrl.Stop()
	wg.Wait()

	if err := m.closeHTTP(); err != nil {
		m.logger.Printf("http client close: %v", err)
	}
	return nil
}
