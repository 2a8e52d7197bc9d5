package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/snonux/dowel/internal/aiclient"
	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/translation"
)

// ProfileName is the AI profile consulted before any translation account.
const ProfileName = "translation"

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Notifier is told about the progress of one run.
type Notifier interface {
	Start(source string)
	Done(result string)
	Failed(err error)
}

// Completer is the part of the AI client the flow needs.
type Completer interface {
	SingleCompletion(ctx context.Context, profileName, message string) (string, error)
}

// Translator is the part of the translation service the flow needs.
type Translator interface {
	Translate(ctx context.Context, name, text, from, to string) (translation.Result, error)
}

// ErrEmptyClipboard is returned when there is nothing to translate.
var ErrEmptyClipboard = errors.New("clipboard is empty")

// Flow translates the clipboard in place.
type Flow struct {
	Store        *config.Store
	AI           Completer
	Translations Translator
	Clipboard    Clipboard
	Notifier     Notifier
	Logger       *slog.Logger
}

func (f *Flow) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// Run performs one clipboard translation. The AI profile named
// "translation" wins when it is switched on; otherwise the first enabled
// translation account is used.
func (f *Flow) Run(ctx context.Context) error {
	source, err := f.Clipboard.ReadText()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(source) == "" {
		return ErrEmptyClipboard
	}

	f.Notifier.Start(source)

	result, err := f.translate(ctx, source)
	if err == nil {
		err = f.Clipboard.WriteText(result)
	}
	if err != nil {
		f.logger().Error("Clipboard translation failed", "error", err)
		f.Notifier.Failed(err)
		return err
	}

	f.Notifier.Done(result)
	return nil
}

func (f *Flow) translate(ctx context.Context, source string) (string, error) {
	target := f.target(ctx)

	if profile, ok := f.Store.AIProfile(ctx, ProfileName); ok && profile.On {
		f.logger().Debug("Translating clipboard with AI", "model", profile.Model, "target", target)
		return f.AI.SingleCompletion(ctx, profile.Name, aiclient.FormatUserMessage(target, source))
	}

	enabled := f.Store.EnabledTranslations(ctx)
	if len(enabled) == 0 {
		return "", apperr.ConfigurationMissing("", "no AI profile or translation account is enabled")
	}

	name := enabled[0].Name
	f.logger().Debug("Translating clipboard", "provider", name, "target", target)
	r, err := f.Translations.Translate(ctx, name, source, "auto", target)
	if err != nil {
		return "", err
	}
	return r.Translated, nil
}

func (f *Flow) target(ctx context.Context) string {
	doc, err := f.Store.Read(ctx)
	if err != nil || doc.TranslationConfig.Locale == "" {
		return config.DefaultTarget
	}
	return doc.TranslationConfig.Locale
}
