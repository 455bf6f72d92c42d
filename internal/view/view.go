// internal/view/view.go
package view

import "github.com/polypheny/polyfier-monitor/internal/status"

// Element IDs that are not status fields.
const (
	ElementLog       = "log-area"
	ElementCountdown = "countdown"
)

// StatusElements lists the status elements in display order.
var StatusElements = []string{
	status.ElementServerStatus,
	status.ElementDatabaseStatus,
	status.ElementDockerStatus,
	status.ElementPolyfierPhase,
	status.ElementPolyphenyControl,
	status.ElementPolyphenyDB,
	status.ElementDefcon,
}

// View is the delivery-only display contract.
// It receives text and writes it verbatim. No interpretation.
type View interface {
	// ClearLog resets the log element to empty text.
	ClearLog()
	// AppendLog adds text to the end of the log element.
	AppendLog(text string)
	// SetCountdown replaces the countdown element's text.
	SetCountdown(text string)
	// SetField replaces an element's text; status.ColorNone keeps its color.
	SetField(element, text string, c status.Color)
	// Close releases the display.
	Close() error
}

// Element is the current state of one display element.
type Element struct {
	Text  string
	Color status.Color
}

// apply merges an update into the element, keeping the prior color on ColorNone.
func (e Element) apply(text string, c status.Color) Element {
	e.Text = text
	if c != status.ColorNone {
		e.Color = c
	}
	return e
}
