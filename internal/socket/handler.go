// internal/socket/handler.go
package socket

import "log"

// Handler receives transport events. Calls come from the client's read
// goroutine, except OnError for failed heartbeat writes, which comes from
// the heartbeat goroutine.
type Handler interface {
	OnOpen(url string)
	OnMessage(m Inbound)
	OnClose(err error)
	OnError(err error)
}

// LogHandler reports every event through a logger and takes no action.
type LogHandler struct {
	Logger *log.Logger
}

func (h LogHandler) OnOpen(url string) {
	h.Logger.Printf("websocket connected (url=%s)", url)
}

func (h LogHandler) OnMessage(m Inbound) {
	h.Logger.Printf("received message: %s", m.Raw)

	switch m.Kind {
	case KindLog:
		h.Logger.Printf("log message: %s", m.Text)
	case KindSys:
		// System frames are only logged; nothing renders them yet.
		h.Logger.Printf("system message: %s", m.Text)
	default:
		h.Logger.Printf("unknown content: %s", m.Text)
	}

	h.Logger.Printf("key: %s", m.Key)
}

func (h LogHandler) OnClose(err error) {
	if err != nil {
		h.Logger.Printf("websocket closed: %v", err)
		return
	}
	h.Logger.Printf("websocket closed")
}

func (h LogHandler) OnError(err error) {
	h.Logger.Printf("websocket error: %v", err)
}
