package transport

import (
	"context"
	"net/http"
)

// Request is a buffered HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully read HTTP response. A non-2xx Status is not an error
// at this layer.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// OK reports whether Status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Port is what the translation and AI layers need from HTTP.
//
// Request performs a buffered round trip. Do starts a streamed one: the
// caller owns the response body and closing it cancels the stream. Do has
// the signature of http.Client.Do so a Port can be handed to SDKs that
// accept an HTTP doer.
type Port interface {
	Request(ctx context.Context, req Request) (*Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type roundTripper struct {
	port Port
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.port.Do(req)
}

// HTTPClient wraps port in an *http.Client for SDKs that insist on one.
func HTTPClient(port Port) *http.Client {
	return &http.Client{Transport: roundTripper{port: port}}
}
