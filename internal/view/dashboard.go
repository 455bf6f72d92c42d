// internal/view/dashboard.go
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/polypheny/polyfier-monitor/internal/status"
)

// Dashboard renders the monitor in the terminal: status panel and countdown
// on top, the server log below, and the process's own log in a system pane.
type Dashboard struct {
	app           *tview.Application
	statusView    *tview.TextView
	countdownView *tview.TextView
	logView       *tview.TextView
	systemView    *tview.TextView

	mu     sync.Mutex
	fields map[string]Element

	// Updates for the running UI. Callers append and never block; pump
	// hands them to tview in order.
	pmu     sync.Mutex
	pending []func()
	wake    chan struct{}

	started atomic.Bool
	closed  atomic.Bool
	ready   chan struct{}
	done    chan struct{}
	runErr  error
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithScreen runs the dashboard on a given screen instead of the terminal.
func WithScreen(s tcell.Screen) DashboardOption {
	return func(d *Dashboard) { d.app.SetScreen(s) }
}

// NewDashboard builds the layout. Nothing is drawn until Start.
func NewDashboard(title string, opts ...DashboardOption) *Dashboard {
	makePane := func(title string) *tview.TextView {
		tv := tview.NewTextView().SetWrap(true)
		tv.SetBorder(true).SetTitle(" " + title + " ").SetTitleAlign(tview.AlignLeft)
		return tv
	}

	statusView := makePane(title)
	statusView.SetDynamicColors(true)

	countdownView := tview.NewTextView().SetDynamicColors(true)
	countdownView.SetTextColor(tcell.ColorYellow)

	logView := makePane(ElementLog)

	systemView := makePane("system")
	systemView.SetTextColor(tcell.ColorGray)

	top := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(statusView, len(StatusElements)+2, 0, false).
		AddItem(countdownView, 1, 0, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, len(StatusElements)+3, 0, false).
		AddItem(logView, 0, 3, false).
		AddItem(systemView, 0, 1, false)

	app := tview.NewApplication().SetRoot(layout, true).EnableMouse(false)

	d := &Dashboard{
		app:           app,
		statusView:    statusView,
		countdownView: countdownView,
		logView:       logView,
		systemView:    systemView,
		fields:        make(map[string]Element),
		wake:          make(chan struct{}, 1),
		ready:         make(chan struct{}),
		done:          make(chan struct{}),
	}

	var once sync.Once
	app.SetBeforeDrawFunc(func(tcell.Screen) bool {
		once.Do(func() { close(d.ready) })
		return false
	})

	for _, o := range opts {
		o(d)
	}

	statusView.SetText(d.statusText())
	return d
}

// Start runs the UI loop in the background and waits for the first draw.
func (d *Dashboard) Start() {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(d.done)
		d.runErr = d.app.Run()
	}()
	go d.pump()

	select {
	case <-d.ready:
	case <-d.done:
	}
}

// Done is closed when the UI loop exits, e.g. on Ctrl-C.
func (d *Dashboard) Done() <-chan struct{} { return d.done }

// Err returns the UI loop's error once Done is closed.
func (d *Dashboard) Err() error {
	select {
	case <-d.done:
		return d.runErr
	default:
		return nil
	}
}

func (d *Dashboard) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	d.pmu.Lock()
	d.pending = nil
	d.pmu.Unlock()

	if d.started.Load() {
		d.app.Stop()
		<-d.done
	}
	return d.runErr
}

func (d *Dashboard) ClearLog() {
	d.queue(func() { d.logView.Clear() })
}

func (d *Dashboard) AppendLog(text string) {
	d.queue(func() {
		fmt.Fprint(d.logView, text)
		d.logView.ScrollToEnd()
	})
}

func (d *Dashboard) SetCountdown(text string) {
	line := fmt.Sprintf(" %s: [::b]%s", ElementCountdown, tview.Escape(text))
	d.queue(func() { d.countdownView.SetText(line) })
}

func (d *Dashboard) SetField(element, text string, c status.Color) {
	d.mu.Lock()
	d.fields[element] = d.fields[element].apply(text, c)
	rendered := d.renderLocked()
	d.mu.Unlock()

	d.queue(func() { d.statusView.SetText(rendered) })
}

// SystemWriter routes process log lines into the system pane.
func (d *Dashboard) SystemWriter() io.Writer {
	return &paneWriter{dash: d, view: d.systemView}
}

func (d *Dashboard) queue(fn func()) {
	if d.closed.Load() {
		return
	}
	if !d.started.Load() {
		// Not on screen: apply directly so state is not lost before Start.
		d.mu.Lock()
		fn()
		d.mu.Unlock()
		return
	}
	select {
	case <-d.done:
		return
	default:
	}

	d.pmu.Lock()
	if d.closed.Load() {
		d.pmu.Unlock()
		return
	}
	d.pending = append(d.pending, fn)
	d.pmu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// pump moves pending updates into the UI loop, one draw per batch.
// It exits when the UI loop does; anything still pending is dropped.
func (d *Dashboard) pump() {
	for {
		select {
		case <-d.done:
			return
		case <-d.wake:
		}

		d.pmu.Lock()
		batch := d.pending
		d.pending = nil
		d.pmu.Unlock()

		if len(batch) == 0 {
			continue
		}
		select {
		case <-d.done:
			return
		default:
		}
		d.app.QueueUpdateDraw(func() {
			for _, fn := range batch {
				fn()
			}
		})
	}
}

func (d *Dashboard) statusText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderLocked()
}

func (d *Dashboard) renderLocked() string {
	return renderStatus(d.fields)
}

// renderStatus lays out every status element, one per line, using tview
// color tags. Unwritten elements show a dash.
func renderStatus(fields map[string]Element) string {
	width := 0
	for _, id := range StatusElements {
		if len(id) > width {
			width = len(id)
		}
	}

	var b strings.Builder
	for i, id := range StatusElements {
		if i > 0 {
			b.WriteByte('\n')
		}
		e, ok := fields[id]
		text := "-"
		if ok {
			text = tview.Escape(e.Text)
		}
		fmt.Fprintf(&b, " %-*s  ", width, id)
		if tag := colorTag(e.Color); tag != "" {
			fmt.Fprintf(&b, "[%s]%s[-]", tag, text)
		} else {
			b.WriteString(text)
		}
	}
	return b.String()
}

func colorTag(c status.Color) string {
	switch c {
	case status.ColorGreen:
		return "green"
	case status.ColorOrange:
		return "orange"
	case status.ColorRed:
		return "red"
	}
	return ""
}

type paneWriter struct {
	dash *Dashboard
	view *tview.TextView
}

func (w *paneWriter) Write(p []byte) (int, error) {
	text := string(p)
	w.dash.queue(func() {
		fmt.Fprint(w.view, text)
		w.view.ScrollToEnd()
	})
	return len(p), nil
}
