package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/storage"
)

// QuietLogger returns a logger that discards everything
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewStore returns a config store on an in-memory port, pre-populated with
// the given accounts and profiles
func NewStore(t *testing.T, opts ...config.Option) (*config.Store, *storage.Memory) {
	t.Helper()

	mem := storage.NewMemory("")
	opts = append([]config.Option{config.WithLogger(QuietLogger())}, opts...)
	return config.NewStore(mem, opts...), mem
}

// AddTranslation stores a translation account or fails the test
func AddTranslation(t *testing.T, store *config.Store, name, key, secret string) {
	t.Helper()

	ok := store.UpsertTranslation(context.Background(), config.TranslationPatch{
		Name:   name,
		Key:    config.String(key),
		Secret: config.String(secret),
		On:     config.Bool(true),
	})
	if !ok {
		t.Fatalf("Failed to store translation account %s", name)
	}
}

// AddAIProfile stores a provider account and a profile bound to it
func AddAIProfile(t *testing.T, store *config.Store, profile, provider, api, key, model string) {
	t.Helper()

	ctx := context.Background()
	if !store.UpsertProvider(ctx, config.ProviderPatch{Name: provider, API: config.String(api), Key: config.String(key), On: config.Bool(true)}) {
		t.Fatalf("Failed to store provider %s", provider)
	}
	ok := store.UpsertAIProfile(ctx, config.AIProfilePatch{
		Name:      profile,
		Provider:  config.String(provider),
		Model:     config.String(model),
		Prompt:    config.String("You are a translator."),
		WebPrompt: config.String("Translate the page."),
		WebMode:   config.String(config.WebModeText),
		On:        config.Bool(true),
	})
	if !ok {
		t.Fatalf("Failed to store AI profile %s", profile)
	}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout/stderr during test execution
func CaptureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()

	os.Stdout = wOut
	os.Stderr = wErr

	outCh := make(chan string)
	errCh := make(chan string)
	go func() { b, _ := io.ReadAll(rOut); outCh <- string(b) }()
	go func() { b, _ := io.ReadAll(rErr); errCh <- string(b) }()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	return <-outCh, <-errCh
}
