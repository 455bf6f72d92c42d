// internal/view/memory.go
package view

import (
	"strings"
	"sync"

	"github.com/polypheny/polyfier-monitor/internal/status"
)

// Memory is a headless, inspectable view.
type Memory struct {
	mu        sync.Mutex
	log       strings.Builder
	countdown string
	fields    map[string]Element
}

func NewMemory() *Memory {
	return &Memory{fields: make(map[string]Element)}
}

func (m *Memory) ClearLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Reset()
}

func (m *Memory) AppendLog(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.WriteString(text)
}

func (m *Memory) SetCountdown(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown = text
}

func (m *Memory) SetField(element, text string, c status.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[element] = m.fields[element].apply(text, c)
}

func (m *Memory) Close() error { return nil }

// Log returns the log element's text.
func (m *Memory) Log() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.String()
}

// Countdown returns the countdown element's text.
func (m *Memory) Countdown() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countdown
}

// Field returns an element's state and whether it was ever written.
func (m *Memory) Field(element string) (Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.fields[element]
	return e, ok
}
