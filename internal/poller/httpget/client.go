// internal/poller/httpget/client.go
package httpget

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Client issues GET requests against one fixed origin.
// It knows nothing about what the bodies mean.
type Client struct {
	origin  string
	timeout time.Duration
	hc      *fasthttp.Client
}

// Config is minimal transport config.
type Config struct {
	Origin  string        // scheme://host[:port]
	Timeout time.Duration // 0 => no per-request timeout
}

// New creates a client. No connection is opened until the first Get.
func New(cfg Config) (*Client, error) {
	if cfg.Origin == "" {
		return nil, errors.New("httpget: origin required")
	}
	if _, err := url.Parse(cfg.Origin); err != nil {
		return nil, err
	}

	return &Client{
		origin:  strings.TrimSuffix(cfg.Origin, "/"),
		timeout: cfg.Timeout,
		hc: &fasthttp.Client{
			Name:            "polyfier-monitor",
			MaxConnsPerHost: 4,
		},
	}, nil
}

// Origin returns the normalized origin.
func (c *Client) Origin() string { return c.origin }

type result struct {
	code int
	body []byte
	err  error
}

// Get performs one GET of origin+path and returns the status code and a
// copy of the body. It returns as soon as ctx is done, even mid-request;
// the abandoned exchange finishes in the background and its result is
// discarded. The configured timeout bounds every exchange.
func (c *Client) Get(ctx context.Context, path string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	deadline, hasDeadline := ctx.Deadline()
	if c.timeout > 0 {
		d := time.Now().Add(c.timeout)
		if !hasDeadline || d.Before(deadline) {
			deadline = d
			hasDeadline = true
		}
	}

	out := make(chan result, 1)
	go func() {
		// req/resp go back to the pool only once fasthttp is done with them.
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.origin + path)
		req.Header.SetMethod(fasthttp.MethodGet)

		var err error
		if hasDeadline {
			err = c.hc.DoDeadline(req, resp, deadline)
		} else {
			err = c.hc.Do(req, resp)
		}
		if err != nil {
			out <- result{err: err}
			return
		}
		out <- result{
			code: resp.StatusCode(),
			body: append([]byte(nil), resp.Body()...),
		}
	}()

	select {
	case r := <-out:
		return r.code, r.body, r.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// Close drops idle connections.
func (c *Client) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
