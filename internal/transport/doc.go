// Package transport is the single HTTP boundary of dowel. Buffered calls go
// through resty, streamed calls through the underlying http.Client, and both
// share one circuit breaker per Client.
package transport
