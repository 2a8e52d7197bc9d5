package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// Defaults for NewClient.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerOpen     = 30 * time.Second
)

// ErrCircuitOpen is returned while the breaker refuses requests.
var ErrCircuitOpen = errors.New("too many consecutive transport failures, backing off")

// Options configures a Client.
type Options struct {
	// Timeout bounds buffered requests. Streamed requests are only bounded
	// by their context.
	Timeout time.Duration
	// BreakerFailures consecutive transport failures open the breaker.
	BreakerFailures int
	// BreakerOpen is how long the breaker stays open before probing.
	BreakerOpen time.Duration
	// HTTPClient is the base client; its Transport is shared by both paths.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements Port.
type Client struct {
	resty   *resty.Client
	stream  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewClient builds a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BreakerFailures <= 0 {
		opts.BreakerFailures = DefaultBreakerFailures
	}
	if opts.BreakerOpen <= 0 {
		opts.BreakerOpen = DefaultBreakerOpen
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var rt http.RoundTripper = http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		rt = opts.HTTPClient.Transport
	}

	c := &Client{
		resty:  resty.NewWithClient(&http.Client{Transport: rt}).SetTimeout(opts.Timeout),
		stream: &http.Client{Transport: rt},
		log:    opts.Logger,
	}

	failures := uint32(opts.BreakerFailures)
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "transport",
		Timeout: opts.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the remote side failing.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return c
}

// Request performs a buffered request. Only network level failures are
// returned as errors.
func (c *Client) Request(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		r := c.resty.R().SetContext(ctx)
		for k, vs := range req.Header {
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if req.Body != nil {
			r.SetBody(req.Body)
		}
		return r.Execute(method, req.URL)
	})
	if err != nil {
		return nil, c.wrap(method, req.URL, err)
	}

	resp := out.(*resty.Response)
	c.log.Debug("HTTP request", "method", method, "url", redact(req.URL), "status", resp.StatusCode())
	return &Response{
		Status: resp.StatusCode(),
		Body:   resp.Body(),
		Header: resp.Header(),
	}, nil
}

// Do performs a request whose body the caller reads incrementally.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.stream.Do(req)
	})
	if err != nil {
		return nil, c.wrap(req.Method, req.URL.String(), err)
	}
	resp := out.(*http.Response)
	c.log.Debug("HTTP stream opened", "method", req.Method, "url", redact(req.URL.String()), "status", resp.StatusCode)
	return resp, nil
}

func (c *Client) wrap(method, url string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return fmt.Errorf("%s %s: %w", method, redact(url), err)
}
