// internal/socket/messages.go
package socket

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client and message codes understood by the server for browser-type clients.
const (
	ClientBrowser     = "BROWSER"
	MessageBrowserSys = "BROWSER_SYS" // subscribe to system status frames
	MessageBrowserLog = "BROWSER_LOG" // subscribe to log frames
)

// Undefined is reported for an absent key field.
const Undefined = "undefined"

// Heartbeat announces client presence. Built fresh per send.
type Heartbeat struct {
	ClientCode  string `json:"clientCode"`
	MessageCode string `json:"messageCode"`
}

// Kind is the branch an inbound frame is routed to.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLog
	KindSys
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindSys:
		return "sys"
	}
	return "unknown"
}

// Inbound is one decoded server frame. Inspected, never retained.
type Inbound struct {
	Raw  string
	Kind Kind

	// Text of the routed field: the log line, the sys payload, or the whole
	// frame for unknown content. Strings are unquoted; other JSON is verbatim.
	Text string

	// Key is the frame's key field, or Undefined.
	Key string
}

// Decode parses a frame and routes it: log first, then sys, else unknown.
// A field counts as present when it holds a truthy JSON value, so "", 0,
// false and null fall through to the next branch.
// Valid JSON that is not an object is unknown content.
func Decode(payload []byte) (Inbound, error) {
	if !json.Valid(payload) {
		return Inbound{}, fmt.Errorf("socket: inbound frame is not valid JSON")
	}

	in := Inbound{
		Raw:  string(payload),
		Kind: KindUnknown,
		Text: string(payload),
		Key:  Undefined,
	}

	if jsoniter.Get(payload).ValueType() != jsoniter.ObjectValue {
		return in, nil
	}

	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Inbound{}, fmt.Errorf("socket: decode: %w", err)
	}

	if v, ok := fields["log"]; ok && truthy(v) {
		in.Kind = KindLog
		in.Text = text(v)
	} else if v, ok := fields["sys"]; ok && truthy(v) {
		in.Kind = KindSys
		in.Text = text(v)
	}

	if v, ok := fields["key"]; ok {
		in.Key = text(v)
	}

	return in, nil
}

func truthy(raw []byte) bool {
	a := jsoniter.Get(raw)
	switch a.ValueType() {
	case jsoniter.NilValue, jsoniter.InvalidValue:
		return false
	case jsoniter.StringValue:
		return a.ToString() != ""
	case jsoniter.NumberValue:
		return a.ToFloat64() != 0
	case jsoniter.BoolValue:
		return a.ToBool()
	}
	return true
}

func text(raw []byte) string {
	a := jsoniter.Get(raw)
	if a.ValueType() == jsoniter.StringValue {
		return a.ToString()
	}
	return string(raw)
}
