package hotkey

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/testutil"
	"codeberg.org/snonux/dowel/internal/translation"
)

type fakeAI struct {
	profile string
	message string
	reply   string
	err     error
}

func (f *fakeAI) SingleCompletion(_ context.Context, profileName, message string) (string, error) {
	f.profile, f.message = profileName, message
	return f.reply, f.err
}

type fakeTranslator struct {
	calls []string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, name, text, from, to string) (translation.Result, error) {
	f.calls = append(f.calls, name+":"+from+"->"+to)
	if f.err != nil {
		return translation.Result{}, f.err
	}
	return translation.Result{Original: text, Translated: "[" + to + "] " + text, From: from, To: to}, nil
}

func newFlow(t *testing.T, text string) (*Flow, *config.Store, *fakeAI, *fakeTranslator, *testutil.MockClipboard, *testutil.MockNotifier) {
	t.Helper()

	store, _ := testutil.NewStore(t)
	ai := &fakeAI{reply: "你好"}
	tr := &fakeTranslator{}
	clip := &testutil.MockClipboard{Text: text}
	notes := &testutil.MockNotifier{}
	f := &Flow{
		Store:        store,
		AI:           ai,
		Translations: tr,
		Clipboard:    clip,
		Notifier:     notes,
		Logger:       testutil.QuietLogger(),
	}
	return f, store, ai, tr, clip, notes
}

func TestRunPrefersAIProfile(t *testing.T) {
	f, store, ai, tr, clip, notes := newFlow(t, "hello")
	testutil.AddAIProfile(t, store, ProfileName, "openai", "https://api.example.com", "sk", "gpt-4o-mini")
	testutil.AddTranslation(t, store, "baidu", "id", "secret")

	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ai.profile != ProfileName {
		t.Errorf("Expected profile %q, got %q", ProfileName, ai.profile)
	}
	if !strings.Contains(ai.message, "hello") || !strings.Contains(ai.message, "zh") {
		t.Errorf("Unexpected user message %q", ai.message)
	}
	if len(tr.calls) != 0 {
		t.Errorf("Translation service should not be used, got %v", tr.calls)
	}
	if clip.Text != "你好" {
		t.Errorf("Clipboard = %q", clip.Text)
	}
	if len(notes.Events) != 2 || notes.Events[0] != "start: hello" || notes.Events[1] != "done: 你好" {
		t.Errorf("Unexpected events %v", notes.Events)
	}
}

func TestRunFallsBackToTranslationAccount(t *testing.T) {
	ctx := context.Background()
	f, store, ai, tr, clip, _ := newFlow(t, "hello")
	testutil.AddAIProfile(t, store, ProfileName, "openai", "https://api.example.com", "sk", "gpt-4o-mini")
	store.UpsertAIProfile(ctx, config.AIProfilePatch{Name: ProfileName, On: config.Bool(false)})
	testutil.AddTranslation(t, store, "aliyun", "id", "secret")
	store.UpdateTranslationConfig(ctx, config.TranslationConfigPatch{Locale: config.String("en")})

	if err := f.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ai.profile != "" {
		t.Error("Disabled AI profile must not be used")
	}
	if len(tr.calls) != 1 || tr.calls[0] != "aliyun:auto->en" {
		t.Errorf("Unexpected translation calls %v", tr.calls)
	}
	if clip.Text != "[en] hello" {
		t.Errorf("Clipboard = %q", clip.Text)
	}
}

func TestRunNothingConfigured(t *testing.T) {
	f, _, _, _, clip, notes := newFlow(t, "hello")

	err := f.Run(context.Background())
	if !apperr.Is(err, apperr.KindConfigurationMissing) {
		t.Errorf("Expected configuration error, got %v", err)
	}
	if len(clip.Writes) != 0 {
		t.Errorf("Clipboard must stay untouched, got %v", clip.Writes)
	}
	if len(notes.Events) != 2 || !strings.HasPrefix(notes.Events[1], "failed: ") {
		t.Errorf("Unexpected events %v", notes.Events)
	}
}

func TestRunFailures(t *testing.T) {
	t.Run("empty clipboard", func(t *testing.T) {
		f, _, _, _, _, notes := newFlow(t, "  \n")
		if err := f.Run(context.Background()); !errors.Is(err, ErrEmptyClipboard) {
			t.Errorf("Expected ErrEmptyClipboard, got %v", err)
		}
		if len(notes.Events) != 0 {
			t.Errorf("Nothing should be notified, got %v", notes.Events)
		}
	})

	t.Run("read error", func(t *testing.T) {
		f, _, _, _, clip, _ := newFlow(t, "")
		clip.ReadErr = errors.New("no display")
		if err := f.Run(context.Background()); err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("provider error", func(t *testing.T) {
		f, store, _, tr, clip, notes := newFlow(t, "hello")
		testutil.AddTranslation(t, store, "baidu", "id", "secret")
		tr.err = &apperr.Error{Kind: apperr.KindProviderLogical, Provider: "baidu", Code: "54001"}

		if err := f.Run(context.Background()); !apperr.Is(err, apperr.KindProviderLogical) {
			t.Errorf("Expected provider error, got %v", err)
		}
		if clip.Text != "hello" {
			t.Errorf("Clipboard changed to %q", clip.Text)
		}
		if len(notes.Events) != 2 || !strings.HasPrefix(notes.Events[1], "failed: ") {
			t.Errorf("Unexpected events %v", notes.Events)
		}
	})

	t.Run("write error", func(t *testing.T) {
		f, store, _, _, clip, notes := newFlow(t, "hello")
		testutil.AddTranslation(t, store, "baidu", "id", "secret")
		clip.WriteErr = errors.New("locked")

		if err := f.Run(context.Background()); err == nil {
			t.Error("Expected error")
		}
		if len(notes.Events) != 2 || notes.Events[1] != "failed: locked" {
			t.Errorf("Unexpected events %v", notes.Events)
		}
	})
}

func TestValidateAccelerator(t *testing.T) {
	tests := []struct {
		accel string
		valid bool
	}{
		{"", true},
		{"CommandOrControl+Shift+T", true},
		{"Alt+F12", true},
		{"Ctrl+Space", true},
		{"Super+1", true},
		{"T", false},
		{"Shift+Shift+T", false},
		{"Hyper+T", false},
		{"Ctrl+F25", false},
		{"Ctrl+", false},
		{"Ctrl+TT", false},
	}

	for _, tt := range tests {
		err := ValidateAccelerator(tt.accel)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateAccelerator(%q) = %v, want valid=%v", tt.accel, err, tt.valid)
		}
	}
}
