package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"codeberg.org/snonux/dowel/internal/transport"
)

// MockResponse represents a mocked HTTP response
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockTransport mocks the transport port. Responses and Errors are keyed by
// the request URL without its query string.
type MockTransport struct {
	Responses map[string]*MockResponse
	Errors    map[string]error
	// DoFunc, when set, serves every streamed request.
	DoFunc func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	Calls    []string
	Requests []transport.Request
}

// NewMockTransport returns an empty mock that answers 404 to everything.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Responses: make(map[string]*MockResponse),
		Errors:    make(map[string]error),
	}
}

// On registers a response for url.
func (m *MockTransport) On(url string, status int, body string) *MockTransport {
	m.Responses[url] = &MockResponse{StatusCode: status, Body: body}
	return m
}

// CallCount returns how many requests were issued on either path.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent buffered request.
func (m *MockTransport) LastRequest() (transport.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return transport.Request{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

func (m *MockTransport) record(method, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s %s", method, url))
}

func (m *MockTransport) lookup(url string) (*MockResponse, error) {
	key := url
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return &MockResponse{StatusCode: http.StatusNotFound, Body: "Not Found"}, nil
}

// Request mocks a buffered request
func (m *MockTransport) Request(ctx context.Context, req transport.Request) (*transport.Response, error) {
	m.record(req.Method, req.URL)
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	resp, err := m.lookup(req.URL)
	if err != nil {
		return nil, err
	}
	header := make(http.Header)
	for k, v := range resp.Headers {
		header.Set(k, v)
	}
	return &transport.Response{Status: resp.StatusCode, Body: []byte(resp.Body), Header: header}, nil
}

// Do mocks a streamed request
func (m *MockTransport) Do(req *http.Request) (*http.Response, error) {
	m.record(req.Method, req.URL.String())

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}

	resp, err := m.lookup(req.URL.String())
	if err != nil {
		return nil, err
	}
	header := make(http.Header)
	for k, v := range resp.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: resp.StatusCode,
		Status:     fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(resp.Body)),
		Request:    req,
	}, nil
}

// CountingBody wraps a reader and counts Close calls. Closing it also
// closes the wrapped reader if it is an io.Closer.
type CountingBody struct {
	io.Reader
	mu     sync.Mutex
	closes int
}

// Close records the call
func (b *CountingBody) Close() error {
	b.mu.Lock()
	b.closes++
	b.mu.Unlock()
	if c, ok := b.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Closes returns how many times Close was called
func (b *CountingBody) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

// MockClipboard mocks the system clipboard
type MockClipboard struct {
	Text     string
	ReadErr  error
	WriteErr error
	Writes   []string
}

// ReadText returns the current clipboard text
func (m *MockClipboard) ReadText() (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.Text, nil
}

// WriteText replaces the clipboard text
func (m *MockClipboard) WriteText(text string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Text = text
	m.Writes = append(m.Writes, text)
	return nil
}

// MockNotifier records hotkey flow notifications
type MockNotifier struct {
	Events []string
}

// Start records the start of a translation
func (m *MockNotifier) Start(source string) {
	m.Events = append(m.Events, "start: "+source)
}

// Done records a finished translation
func (m *MockNotifier) Done(result string) {
	m.Events = append(m.Events, "done: "+result)
}

// Failed records a failed translation
func (m *MockNotifier) Failed(err error) {
	m.Events = append(m.Events, "failed: "+err.Error())
}
