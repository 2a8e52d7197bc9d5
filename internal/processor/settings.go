package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/hotkey"
	"codeberg.org/snonux/dowel/internal/storage"
	"codeberg.org/snonux/dowel/internal/translation"
)

// mask hides all but the last four characters of a secret
func mask(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

// ShowConfig prints the document with keys and secrets masked, followed by
// the remaining monthly quota of every limited account. Counters of a past
// month are rolled over first.
func (p *Processor) ShowConfig(ctx context.Context) error {
	if !p.store.ResetMonthlyUsageIfStale(ctx) {
		p.log.Warn("Monthly usage reset failed")
	}

	doc, err := p.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	for i := range doc.Providers {
		doc.Providers[i].Key = mask(doc.Providers[i].Key)
	}
	for i := range doc.Translations {
		doc.Translations[i].Secret = mask(doc.Translations[i].Secret)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, string(data))

	for _, t := range doc.Translations {
		if left, limited := t.Remaining(); limited {
			fmt.Fprintf(p.out, "%s: %d of %d characters left this month\n", t.Name, left, t.Limit)
		}
	}
	return nil
}

func saved(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("failed to save %s", what)
	}
	return nil
}

// SaveProvider upserts an AI provider account
func (p *Processor) SaveProvider(ctx context.Context, patch config.ProviderPatch) error {
	return saved(p.store.UpsertProvider(ctx, patch), "provider "+patch.Name)
}

// SaveTranslation upserts a translation account. Only known services can
// be configured.
func (p *Processor) SaveTranslation(ctx context.Context, patch config.TranslationPatch) error {
	if _, ok := translation.Lookup(patch.Name); !ok {
		var names []string
		for _, k := range translation.Kinds() {
			names = append(names, k.String())
		}
		return fmt.Errorf("unknown translation service %q (available: %s)", patch.Name, strings.Join(names, ", "))
	}
	if patch.Limit != nil && *patch.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return saved(p.store.UpsertTranslation(ctx, patch), "translation account "+patch.Name)
}

// SaveAIProfile upserts an AI profile
func (p *Processor) SaveAIProfile(ctx context.Context, patch config.AIProfilePatch) error {
	if patch.WebMode != nil && *patch.WebMode != "" &&
		*patch.WebMode != config.WebModeText && *patch.WebMode != config.WebModeMarkdown {
		return fmt.Errorf("web mode must be %q or %q", config.WebModeText, config.WebModeMarkdown)
	}
	return saved(p.store.UpsertAIProfile(ctx, patch), "AI profile "+patch.Name)
}

// SaveApp updates the app settings
func (p *Processor) SaveApp(ctx context.Context, patch config.AppSettingsPatch) error {
	return saved(p.store.UpdateApp(ctx, patch), "app settings")
}

// SaveHotkey validates and stores the clipboard hotkey settings
func (p *Processor) SaveHotkey(ctx context.Context, patch config.TranslationConfigPatch) error {
	if patch.HotKey != nil {
		if err := hotkey.ValidateAccelerator(*patch.HotKey); err != nil {
			return err
		}
	}
	return saved(p.store.UpdateTranslationConfig(ctx, patch), "hotkey settings")
}

// ResetUsage zeroes the usage counter of name, or of every account when
// name is empty. The document is archived first.
func (p *Processor) ResetUsage(ctx context.Context, name string) error {
	if p.archiveDir != "" {
		path, err := storage.Archive(ctx, p.port, p.archiveDir)
		if err != nil {
			return fmt.Errorf("failed to archive configuration: %w", err)
		}
		if path != "" {
			fmt.Fprintf(p.errOut, "Archived configuration to %s\n", path)
		}
	}

	names := []string{name}
	if name == "" {
		names = names[:0]
		for _, t := range p.store.Translations(ctx) {
			names = append(names, t.Name)
		}
	}

	for _, n := range names {
		if !p.store.ResetUsage(ctx, n) {
			return fmt.Errorf("failed to reset usage of %s", n)
		}
		fmt.Fprintf(p.out, "Reset usage of %s\n", n)
	}
	return nil
}
