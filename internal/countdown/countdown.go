// internal/countdown/countdown.go
package countdown

import (
	"context"
	"fmt"
	"time"
)

// Expired is rendered once the target instant has passed.
const Expired = "EXPIRED"

const (
	msSecond = int64(1000)
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
)

// Sink receives rendered countdown text.
type Sink interface {
	SetCountdown(text string)
}

// Countdown renders the time left until a fixed target.
type Countdown struct {
	target   time.Time
	sink     Sink
	onExpire func()
	now      func() time.Time
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) { c.now = now }
}

// New creates a countdown towards target. onExpire runs on every tick
// after the target has passed and must be idempotent; it may be nil.
func New(target time.Time, sink Sink, onExpire func(), opts ...Option) *Countdown {
	c := &Countdown{
		target:   target,
		sink:     sink,
		onExpire: onExpire,
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Target returns the fixed target instant.
func (c *Countdown) Target() time.Time { return c.target }

// Distance is target minus now, in whole milliseconds.
func (c *Countdown) Distance() int64 {
	return c.target.UnixMilli() - c.now().UnixMilli()
}

// Tick renders once and fires onExpire when the target has passed.
func (c *Countdown) Tick() (text string, expired bool) {
	d := c.Distance()
	if d < 0 {
		if c.onExpire != nil {
			c.onExpire()
		}
		text, expired = Expired, true
	} else {
		text = Format(d)
	}

	if c.sink != nil {
		c.sink.SetCountdown(text)
	}
	return text, expired
}

// Task adapts the countdown to a scheduler tick.
func (c *Countdown) Task() func(ctx context.Context) {
	return func(context.Context) { c.Tick() }
}

// Format renders a non-negative millisecond distance as "{d}d {h}h {m}m {s}s ".
// Components are floor-divided and not padded; the trailing space is part
// of the format.
func Format(ms int64) string {
	days := ms / msDay
	hours := (ms % msDay) / msHour
	minutes := (ms % msHour) / msMinute
	seconds := (ms % msMinute) / msSecond
	return fmt.Sprintf("%dd %dh %dm %ds ", days, hours, minutes, seconds)
}
