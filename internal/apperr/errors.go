package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindConfigurationMissing means a required account, profile or credential is absent.
	KindConfigurationMissing Kind = iota + 1
	// KindAuth means the remote endpoint rejected the credentials (HTTP 401).
	KindAuth
	// KindResponseShape means a 2xx response lacked the expected fields.
	KindResponseShape
	// KindProviderLogical means a 2xx response carried a provider-level error code.
	KindProviderLogical
	// KindTransport covers network failures, unexpected statuses and stream decode failures.
	KindTransport
	// KindModelsQuery means the model list endpoint answered with a non-2xx, non-401 status.
	KindModelsQuery
	// KindData means a chat completion answered with a non-2xx, non-401 status.
	KindData
	// KindQuotaExceeded means the account's monthly character limit is used up.
	KindQuotaExceeded
)

var kindNames = map[Kind]string{
	KindConfigurationMissing: "configuration missing",
	KindAuth:                 "authentication failed",
	KindResponseShape:        "unexpected response shape",
	KindProviderLogical:      "provider error",
	KindTransport:            "transport error",
	KindModelsQuery:          "model query failed",
	KindData:                 "completion failed",
	KindQuotaExceeded:        "quota exceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Provider, Code and Message preserve whatever
// the remote side reported so it can be shown for diagnostics.
type Error struct {
	Kind     Kind
	Provider string
	Code     string
	Message  string
	Status   int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Code != "" {
		msg += fmt.Sprintf(" (code=%s)", e.Code)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status=%d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, provider, message string) *Error {
	return &Error{Kind: kind, Provider: provider, Message: message}
}

// Wrap classifies err under kind.
func Wrap(kind Kind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// ConfigurationMissing reports that name has no usable configuration.
func ConfigurationMissing(provider, what string) *Error {
	return New(KindConfigurationMissing, provider, what)
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// KindOf returns the kind of err, or 0 when err is unclassified.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return 0
}
