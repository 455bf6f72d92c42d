// internal/socket/client.go
package socket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotOpen is returned by Send outside the open state.
var ErrNotOpen = errors.New("socket: connection not open")

// State is the transport state. Transitions are driven by the transport only.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	}
	return "closed"
}

const writeWait = 10 * time.Second

// Config is the minimal runtime config the client needs.
type Config struct {
	URL               string
	HeartbeatInterval time.Duration
	Heartbeat         Heartbeat
	Header            http.Header
}

// Client is a single-shot socket: it connects once, heartbeats while open
// and never reconnects.
type Client struct {
	cfg     Config
	handler Handler
	dialer  *websocket.Dialer

	state atomic.Int32
	sent  atomic.Uint64

	mu   sync.Mutex // serializes data frames and guards conn
	conn *websocket.Conn
}

// New creates a client with immutable config.
func New(cfg Config, h Handler) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("socket: url required")
	}
	if cfg.HeartbeatInterval <= 0 {
		return nil, errors.New("socket: heartbeat interval must be > 0")
	}
	if h == nil {
		return nil, errors.New("socket: handler required")
	}
	c := &Client{
		cfg:     cfg,
		handler: h,
		dialer:  websocket.DefaultDialer,
	}
	c.state.Store(int32(StateConnecting))
	return c, nil
}

// URLFor derives the socket URL from an http(s) origin.
func URLFor(origin, path string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("socket: origin scheme %q not supported", u.Scheme)
	}
	u.Path = "/" + strings.TrimPrefix(path, "/")
	return u.String(), nil
}

// State returns the current transport state.
func (c *Client) State() State { return State(c.state.Load()) }

// HeartbeatsSent returns the number of heartbeat frames written.
func (c *Client) HeartbeatsSent() uint64 { return c.sent.Load() }

// Run connects and serves the connection until the server closes it or
// ctx is done. It returns nil when ctx ended the connection.
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
	if err != nil {
		c.state.Store(int32(StateClosed))
		c.handler.OnError(err)
		c.handler.OnClose(err)
		return fmt.Errorf("socket: dial %s: %w", c.cfg.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state.Store(int32(StateOpen))
	c.mu.Unlock()

	c.handler.OnOpen(c.cfg.URL)

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.heartbeat(hbCtx)
	}()

	// Close from our side when ctx ends; the read loop then unblocks.
	readDone := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			_ = conn.Close()
		case <-readDone:
		}
	}()

	readErr := c.readLoop(conn)
	close(readDone)

	c.mu.Lock()
	c.state.Store(int32(StateClosed))
	c.mu.Unlock()

	stopHeartbeat()
	wg.Wait()
	_ = conn.Close()

	if ctx.Err() != nil {
		c.handler.OnClose(nil)
		return nil
	}
	c.handler.OnClose(readErr)
	return readErr
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := Decode(data)
		if err != nil {
			// error signal only; the connection stays open
			c.handler.OnError(err)
			continue
		}
		c.handler.OnMessage(msg)
	}
}

func (c *Client) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hb := Heartbeat{
				ClientCode:  c.cfg.Heartbeat.ClientCode,
				MessageCode: c.cfg.Heartbeat.MessageCode,
			}
			if err := c.Send(hb); err != nil {
				if errors.Is(err, ErrNotOpen) {
					return
				}
				c.handler.OnError(err)
				continue
			}
			c.sent.Add(1)
		}
	}
}

// Send writes v as one JSON text frame.
func (c *Client) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("socket: encode: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StateOpen || c.conn == nil {
		return ErrNotOpen
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
