package aiclient

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/dowel/internal/apperr"
)

// StreamOptions describes one streamed completion. Target is the language
// the content should be translated into, Message the raw user input.
type StreamOptions struct {
	Target      string
	Message     string
	ProfileName string
	OnChunk     func(content string)
	OnComplete  func()
	OnError     func(err error)
}

func (o StreamOptions) chunk(s string) {
	if o.OnChunk != nil {
		o.OnChunk(s)
	}
}

func (o StreamOptions) complete() {
	if o.OnComplete != nil {
		o.OnComplete()
	}
}

func (o StreamOptions) fail(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

// StreamCompletion starts a streamed completion and returns at once.
// Profile resolution failures are reported through OnError before it
// returns. Chunks arrive in order on a separate goroutine, followed by
// exactly one OnComplete or OnError. The returned cancel function stops all
// further callbacks and releases the stream; once it returns no callback
// runs any more. Calling it again does nothing. Cancel waits for a running
// callback to finish, so it must not be called from inside one.
func (c *Client) StreamCompletion(ctx context.Context, opts StreamOptions) (cancel func()) {
	t, err := c.resolve(ctx, opts.ProfileName)
	if err != nil {
		opts.fail(err)
		return func() {}
	}

	ctx, stop := context.WithCancel(ctx)

	// mu is held across the cancelled check and the callback it guards.
	var mu sync.Mutex
	cancelled := false
	deliver := func(fn func()) bool {
		mu.Lock()
		defer mu.Unlock()
		if cancelled {
			return false
		}
		fn()
		return true
	}

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			mu.Lock()
			cancelled = true
			mu.Unlock()
			stop()
		})
	}

	go func() {
		defer stop()
		for chunk, err := range c.streamTarget(ctx, t, opts.Target, opts.Message) {
			if err != nil {
				deliver(func() { opts.fail(err) })
				return
			}
			if !deliver(func() { opts.chunk(chunk) }) {
				return
			}
		}
		deliver(opts.complete)
	}()

	return cancel
}

// Stream is the pull form of StreamCompletion: ranging over it yields the
// chunks in order, and a failure is yielded once as the last element.
// Breaking out of the loop or cancelling ctx releases the stream.
func (c *Client) Stream(ctx context.Context, profileName, target, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		t, err := c.resolve(ctx, profileName)
		if err != nil {
			yield("", err)
			return
		}
		for chunk, err := range c.streamTarget(ctx, t, target, message) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// streamTarget resolves the message content and opens the stream for an
// already resolved profile.
func (c *Client) streamTarget(ctx context.Context, t target, lang, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		content := c.resolver.Resolve(ctx, message, t.profile)
		if content == "" {
			yield("", apperr.ConfigurationMissing(t.profile.Name, "no content to translate"))
			return
		}
		user := FormatUserMessage(lang, content)

		var chunks iter.Seq2[string, error]
		if t.gemini() {
			chunks = c.geminiStream(ctx, t, t.profile.WebPrompt, user)
		} else {
			chunks = c.openAIStream(ctx, t, t.profile.WebPrompt, user)
		}
		for chunk, err := range chunks {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

func (c *Client) openAIStream(ctx context.Context, t target, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream, err := c.openAI(t.provider.API, t.provider.Key).CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:    t.profile.Model,
			Messages: messages(system, user),
			Stream:   true,
		})
		if err != nil {
			yield("", classify(t.provider.Name, err, apperr.KindTransport))
			return
		}

		// The body is closed exactly once: on return, or as soon as ctx is
		// cancelled so a blocked Recv wakes up.
		var closeOnce sync.Once
		release := func() { closeOnce.Do(func() { stream.Close() }) }
		unwatch := context.AfterFunc(ctx, release)
		defer func() {
			unwatch()
			release()
		}()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					err = ctx.Err()
				}
				yield("", apperr.Wrap(apperr.KindTransport, t.provider.Name, err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}

			choice := resp.Choices[0]
			if choice.Delta.Content != "" {
				if !yield(choice.Delta.Content, nil) {
					return
				}
			}
			if choice.FinishReason == openai.FinishReasonStop {
				return
			}
		}
	}
}
