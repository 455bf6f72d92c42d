// internal/view/console.go
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/polypheny/polyfier-monitor/internal/countdown"
	"github.com/polypheny/polyfier-monitor/internal/status"
)

// Console prints line-oriented updates.
// Status lines are printed only on change; countdown text only when it
// first appears and when it flips to or from EXPIRED.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	fields map[string]Element

	countdownSeen    bool
	countdownExpired bool

	paint map[status.Color]*color.Color
	label *color.Color
}

// NewConsole writes to w. With noColor set, no escape sequences are emitted.
func NewConsole(w io.Writer, noColor bool) *Console {
	paint := map[status.Color]*color.Color{
		status.ColorGreen:  color.New(color.FgGreen),
		status.ColorOrange: color.New(38, 5, 208), // 256-color orange
		status.ColorRed:    color.New(color.FgRed),
	}
	label := color.New(color.Bold)

	if noColor {
		for _, p := range paint {
			p.DisableColor()
		}
		label.DisableColor()
	}

	return &Console{
		w:      w,
		fields: make(map[string]Element),
		paint:  paint,
		label:  label,
	}
}

// ClearLog is a no-op: printed lines cannot be taken back.
func (c *Console) ClearLog() {}

// AppendLog writes text as is, line-framed: a newline is added when the
// text does not end in one, so the next line never runs into it.
func (c *Console) AppendLog(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = io.WriteString(c.w, text)
}

func (c *Console) SetCountdown(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := text == countdown.Expired
	if c.countdownSeen && expired == c.countdownExpired {
		return
	}
	c.countdownSeen = true
	c.countdownExpired = expired

	fmt.Fprintf(c.w, "%s %s\n", c.label.Sprint("["+ElementCountdown+"]"), strings.TrimSpace(text))
}

func (c *Console) SetField(element, text string, col status.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, seen := c.fields[element]
	next := prev.apply(text, col)
	if seen && next == prev {
		return
	}
	c.fields[element] = next

	value := text
	if p, ok := c.paint[next.Color]; ok {
		value = p.Sprint(text)
	}
	fmt.Fprintf(c.w, "%s %s\n", c.label.Sprint("["+element+"]"), value)
}

func (c *Console) Close() error { return nil }
