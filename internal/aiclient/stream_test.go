package aiclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/testutil"
)

// recorder collects stream callbacks.
type recorder struct {
	mu        sync.Mutex
	chunks    []string
	completes int
	errs      []error
	done      chan struct{}
	once      sync.Once
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) options(profile, target, message string) StreamOptions {
	return StreamOptions{
		Target:      target,
		Message:     message,
		ProfileName: profile,
		OnChunk: func(s string) {
			r.mu.Lock()
			r.chunks = append(r.chunks, s)
			r.mu.Unlock()
		},
		OnComplete: func() {
			r.mu.Lock()
			r.completes++
			r.mu.Unlock()
			r.once.Do(func() { close(r.done) })
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
			r.once.Do(func() { close(r.done) })
		},
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the stream to finish")
	}
	// Give a misbehaving stream the chance to deliver more callbacks.
	time.Sleep(20 * time.Millisecond)
}

func (r *recorder) snapshot() ([]string, int, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.chunks...), r.completes, append([]error(nil), r.errs...)
}

func sseResponse(req *http.Request, body io.ReadCloser) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": {"text/event-stream"}},
		Body:       body,
		Request:    req,
	}
}

func frames(lines ...string) string {
	return strings.Join(lines, "\n\n") + "\n\n"
}

func streamClient(t *testing.T, do func(req *http.Request) (*http.Response, error), opts ...Option) *Client {
	t.Helper()
	tp := testutil.NewMockTransport()
	tp.DoFunc = do
	client, store := newClient(t, tp, opts...)
	testutil.AddAIProfile(t, store, "translation", "openai", endpoint, "sk-test", "gpt-4o-mini")
	return client
}

func TestStreamCompletionOrder(t *testing.T) {
	var sent chatRequest
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		sent = decodeChatRequest(t, req)
		return sseResponse(req, io.NopCloser(strings.NewReader(frames(
			`data: {"choices":[{"delta":{"content":"He"}}]}`,
			`data: {"choices":[{"delta":{"content":"llo"}}]}`,
			`data: [DONE]`,
		)))), nil
	})

	rec := newRecorder()
	client.StreamCompletion(context.Background(), rec.options("translation", "zh", "hello"))
	rec.wait(t)

	chunks, completes, errs := rec.snapshot()
	if strings.Join(chunks, "|") != "He|llo" {
		t.Errorf("chunks = %q, want [He llo]", chunks)
	}
	if completes != 1 || len(errs) != 0 {
		t.Errorf("completes=%d errors=%v, want 1 and none", completes, errs)
	}

	if !sent.Stream {
		t.Error("Expected stream:true in the request body")
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Content != "Translate the page." {
		t.Errorf("System message should be the web prompt: %+v", sent.Messages)
	}
	if sent.Messages[1].Content != FormatUserMessage("zh", "hello") {
		t.Errorf("User message = %q", sent.Messages[1].Content)
	}
}

func TestStreamCompletionFinishReasonStops(t *testing.T) {
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		return sseResponse(req, io.NopCloser(strings.NewReader(frames(
			`data: {"choices":[{"delta":{"content":"Hi"}}]}`,
			`data: {"choices":[{"delta":{"content":"!"},"finish_reason":"stop"}]}`,
			`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
		)))), nil
	})

	rec := newRecorder()
	client.StreamCompletion(context.Background(), rec.options("translation", "en", "x"))
	rec.wait(t)

	chunks, completes, errs := rec.snapshot()
	if strings.Join(chunks, "") != "Hi!" || completes != 1 || len(errs) != 0 {
		t.Errorf("chunks=%q completes=%d errs=%v", chunks, completes, errs)
	}
}

func TestStreamCompletionCancel(t *testing.T) {
	pr, pw := io.Pipe()
	body := &testutil.CountingBody{Reader: pr}
	proceed := make(chan struct{})

	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		go func() {
			pw.Write([]byte(`data: {"choices":[{"delta":{"content":"He"}}]}` + "\n\n"))
			<-proceed
			pw.Write([]byte(`data: {"choices":[{"delta":{"content":"llo"}}]}` + "\n\n"))
			pw.Write([]byte("data: [DONE]\n\n"))
		}()
		return sseResponse(req, body), nil
	})

	rec := newRecorder()
	firstChunk := make(chan struct{})
	opts := rec.options("translation", "zh", "hello")
	onChunk := opts.OnChunk
	var once sync.Once
	opts.OnChunk = func(s string) {
		onChunk(s)
		once.Do(func() { close(firstChunk) })
	}

	cancel := client.StreamCompletion(context.Background(), opts)

	select {
	case <-firstChunk:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the first chunk")
	}
	cancel()
	cancel()
	close(proceed)

	deadline := time.Now().Add(5 * time.Second)
	for body.Closes() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	chunks, completes, errs := rec.snapshot()
	if len(chunks) != 1 || chunks[0] != "He" {
		t.Errorf("chunks after cancel = %q, want [He]", chunks)
	}
	if completes != 0 || len(errs) != 0 {
		t.Errorf("completes=%d errors=%v after cancel, want none", completes, errs)
	}
	if body.Closes() != 1 {
		t.Errorf("body closed %d times, want 1", body.Closes())
	}
}

func TestStreamCompletionResolutionFailure(t *testing.T) {
	tp := testutil.NewMockTransport()
	client, _ := newClient(t, tp)

	var got error
	cancel := client.StreamCompletion(context.Background(), StreamOptions{
		ProfileName: "translation",
		Message:     "hello",
		OnError:     func(err error) { got = err },
		OnComplete:  func() { t.Error("OnComplete must not be called") },
	})
	cancel()

	// Delivered before StreamCompletion returned
	if !apperr.Is(got, apperr.KindConfigurationMissing) {
		t.Errorf("Expected ConfigurationMissing, got %v", got)
	}
	if tp.CallCount() != 0 {
		t.Error("No connection may be opened when resolution fails")
	}
}

func TestStreamCompletionEmptyContent(t *testing.T) {
	requests := 0
	empty := ResolverFunc(func(ctx context.Context, message string, profile config.AIProfile) string {
		return ""
	})
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		return nil, io.EOF
	}, WithResolver(empty))

	rec := newRecorder()
	client.StreamCompletion(context.Background(), rec.options("translation", "zh", "https://example.com"))
	rec.wait(t)

	_, completes, errs := rec.snapshot()
	if completes != 0 || len(errs) != 1 || !apperr.Is(errs[0], apperr.KindConfigurationMissing) {
		t.Errorf("completes=%d errs=%v", completes, errs)
	}
	if requests != 0 {
		t.Error("Expected no request for empty content")
	}
}

func TestStreamCompletionHTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperr.Kind
	}{
		{"unauthorized", 401, apperr.KindAuth},
		{"server error", 500, apperr.KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := streamClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(req, tt.status, `{"error":{"message":"nope","type":"error"}}`), nil
			})

			rec := newRecorder()
			client.StreamCompletion(context.Background(), rec.options("translation", "zh", "hello"))
			rec.wait(t)

			_, completes, errs := rec.snapshot()
			if completes != 0 || len(errs) != 1 || !apperr.Is(errs[0], tt.want) {
				t.Errorf("completes=%d errs=%v, want one %v", completes, errs, tt.want)
			}
		})
	}
}

func TestStreamCompletionDecodeError(t *testing.T) {
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		return sseResponse(req, io.NopCloser(strings.NewReader(frames(
			`data: {"choices":[{"delta":{"content":"He"}}]}`,
			`data: {not json`,
		)))), nil
	})

	rec := newRecorder()
	client.StreamCompletion(context.Background(), rec.options("translation", "zh", "hello"))
	rec.wait(t)

	chunks, completes, errs := rec.snapshot()
	if len(chunks) != 1 || completes != 0 || len(errs) != 1 || !apperr.Is(errs[0], apperr.KindTransport) {
		t.Errorf("chunks=%q completes=%d errs=%v", chunks, completes, errs)
	}
}

func TestStreamPull(t *testing.T) {
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		return sseResponse(req, io.NopCloser(strings.NewReader(frames(
			`data: {"choices":[{"delta":{"content":"a"}}]}`,
			`data: {"choices":[{"delta":{}}]}`,
			`data: {"choices":[{"delta":{"content":"b"}}]}`,
			`data: [DONE]`,
		)))), nil
	})

	var got []string
	for chunk, err := range client.Stream(context.Background(), "translation", "en", "x") {
		if err != nil {
			t.Fatalf("Stream yielded error: %v", err)
		}
		got = append(got, chunk)
	}
	if strings.Join(got, "") != "ab" {
		t.Errorf("chunks = %q", got)
	}
}

func TestStreamPullBreakClosesBody(t *testing.T) {
	body := &testutil.CountingBody{Reader: strings.NewReader(frames(
		`data: {"choices":[{"delta":{"content":"a"}}]}`,
		`data: {"choices":[{"delta":{"content":"b"}}]}`,
		`data: [DONE]`,
	))}
	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		return sseResponse(req, body), nil
	})

	for chunk, err := range client.Stream(context.Background(), "translation", "en", "x") {
		if err != nil || chunk != "a" {
			t.Fatalf("Unexpected first element %q %v", chunk, err)
		}
		break
	}
	if body.Closes() != 1 {
		t.Errorf("body closed %d times, want 1", body.Closes())
	}
}

func TestStreamPullResolutionError(t *testing.T) {
	client, _ := newClient(t, testutil.NewMockTransport())

	n := 0
	for _, err := range client.Stream(context.Background(), "missing", "en", "x") {
		n++
		if !apperr.Is(err, apperr.KindConfigurationMissing) {
			t.Errorf("Expected ConfigurationMissing, got %v", err)
		}
	}
	if n != 1 {
		t.Errorf("Expected exactly one element, got %d", n)
	}
}

func TestStreamCompletionNoCallbackAfterCancelReturns(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		sb.WriteString(`data: {"choices":[{"delta":{"content":"x"}}]}` + "\n\n")
	}
	sb.WriteString("data: [DONE]\n\n")
	payload := sb.String()

	client := streamClient(t, func(req *http.Request) (*http.Response, error) {
		return sseResponse(req, io.NopCloser(strings.NewReader(payload))), nil
	})

	for i := 0; i < 100; i++ {
		var returned atomic.Bool
		var late atomic.Int32
		first := make(chan struct{})
		var once sync.Once
		check := func() {
			if returned.Load() {
				late.Add(1)
			}
		}

		cancel := client.StreamCompletion(context.Background(), StreamOptions{
			ProfileName: "translation",
			Target:      "zh",
			Message:     "hello",
			OnChunk: func(string) {
				check()
				once.Do(func() { close(first) })
			},
			OnComplete: check,
			OnError:    func(error) { check() },
		})

		select {
		case <-first:
		case <-time.After(5 * time.Second):
			t.Fatal("Timed out waiting for the first chunk")
		}
		cancel()
		returned.Store(true)

		time.Sleep(2 * time.Millisecond)
		if n := late.Load(); n != 0 {
			t.Fatalf("Iteration %d: %d callbacks ran after cancel returned", i, n)
		}
	}
}
