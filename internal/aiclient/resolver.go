package aiclient

import (
	"context"

	"codeberg.org/snonux/dowel/internal/config"
)

// ContentResolver turns a user message into the text sent to the model,
// for example by fetching the page a URL points to. An empty result aborts
// the request.
type ContentResolver interface {
	Resolve(ctx context.Context, message string, profile config.AIProfile) string
}

// PassThrough returns messages unchanged.
type PassThrough struct{}

// Resolve returns message.
func (PassThrough) Resolve(_ context.Context, message string, _ config.AIProfile) string {
	return message
}

// ResolverFunc adapts a function to ContentResolver.
type ResolverFunc func(ctx context.Context, message string, profile config.AIProfile) string

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, message string, profile config.AIProfile) string {
	return f(ctx, message, profile)
}
