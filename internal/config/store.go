package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"codeberg.org/snonux/dowel/internal/storage"
)

// Store owns the configuration document behind a storage.Port. Every
// mutation is a read-modify-write under one mutex, so concurrent upserts
// and usage accruals within the process never lose updates.
type Store struct {
	port storage.Port
	now  func() time.Time
	log  *slog.Logger
	mu   sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for the monthly rollover key.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used to report storage failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a store on top of port.
func NewStore(port storage.Port, opts ...Option) *Store {
	s := &Store{
		port: port,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the current document. A missing document yields the
// defaults; an unreadable or corrupt one is an error.
func (s *Store) Read(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// Write persists doc as a whole, reporting success.
func (s *Store) Write(ctx context.Context, doc *Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, doc); err != nil {
		s.log.Error("Failed to save configuration", "error", err)
		return false
	}
	return true
}

func (s *Store) read(ctx context.Context) (*Document, error) {
	exists, err := s.port.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check configuration: %w", err)
	}
	if !exists {
		return DefaultDocument(), nil
	}

	text, err := s.port.ReadText(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	doc := DefaultDocument()
	if err := json.Unmarshal([]byte(text), doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	doc.normalize()
	return doc, nil
}

func (s *Store) write(ctx context.Context, doc *Document) error {
	doc.normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := s.port.WriteText(ctx, string(data)); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

// modify runs fn on the current document and writes it back when fn
// reports a change.
func (s *Store) modify(ctx context.Context, fn func(*Document) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	if !fn(doc) {
		return false, nil
	}
	if err := s.write(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// update is modify for callers that only need a success flag. An
// unchanged document counts as failure.
func (s *Store) update(ctx context.Context, op string, fn func(*Document) bool) bool {
	changed, err := s.modify(ctx, fn)
	if err != nil {
		s.log.Error("Configuration update failed", "op", op, "error", err)
		return false
	}
	return changed
}

// UpsertProvider merges p into the provider named p.Name, creating it if needed.
func (s *Store) UpsertProvider(ctx context.Context, p ProviderPatch) bool {
	if p.Name == "" {
		return false
	}
	return s.update(ctx, "upsert provider", func(doc *Document) bool {
		i := doc.findProvider(p.Name)
		if i < 0 {
			doc.Providers = append(doc.Providers, Provider{Name: p.Name})
			i = len(doc.Providers) - 1
		}
		p.apply(&doc.Providers[i])
		return true
	})
}

// UpsertTranslation merges p into the translation account named p.Name.
// Usage counters are never touched by an upsert.
func (s *Store) UpsertTranslation(ctx context.Context, p TranslationPatch) bool {
	if p.Name == "" {
		return false
	}
	return s.update(ctx, "upsert translation", func(doc *Document) bool {
		i := doc.findTranslation(p.Name)
		if i < 0 {
			doc.Translations = append(doc.Translations, Translation{
				Name:           p.Name,
				LastResetMonth: s.CurrentMonth(),
			})
			i = len(doc.Translations) - 1
		}
		p.apply(&doc.Translations[i])
		return true
	})
}

// UpsertAIProfile merges p into the AI profile named p.Name.
func (s *Store) UpsertAIProfile(ctx context.Context, p AIProfilePatch) bool {
	if p.Name == "" {
		return false
	}
	return s.update(ctx, "upsert ai profile", func(doc *Document) bool {
		i := doc.findAIProfile(p.Name)
		if i < 0 {
			doc.AI = append(doc.AI, AIProfile{Name: p.Name})
			i = len(doc.AI) - 1
		}
		p.apply(&doc.AI[i])
		return true
	})
}

// UpdateApp merges p into the app settings.
func (s *Store) UpdateApp(ctx context.Context, p AppSettingsPatch) bool {
	return s.update(ctx, "update app", func(doc *Document) bool {
		p.apply(&doc.App)
		return true
	})
}

// UpdateTranslationConfig merges p into the hotkey settings.
func (s *Store) UpdateTranslationConfig(ctx context.Context, p TranslationConfigPatch) bool {
	return s.update(ctx, "update translation config", func(doc *Document) bool {
		p.apply(&doc.TranslationConfig)
		return true
	})
}

// snapshot reads the document for lookups; failures are logged and
// reported as an empty document.
func (s *Store) snapshot(ctx context.Context) *Document {
	doc, err := s.Read(ctx)
	if err != nil {
		s.log.Error("Failed to load configuration", "error", err)
		return DefaultDocument()
	}
	return doc
}

// Provider returns the provider account named name.
func (s *Store) Provider(ctx context.Context, name string) (Provider, bool) {
	doc := s.snapshot(ctx)
	if i := doc.findProvider(name); i >= 0 {
		return doc.Providers[i], true
	}
	return Provider{}, false
}

// Translation returns the translation account named name.
func (s *Store) Translation(ctx context.Context, name string) (Translation, bool) {
	doc := s.snapshot(ctx)
	if i := doc.findTranslation(name); i >= 0 {
		return doc.Translations[i], true
	}
	return Translation{}, false
}

// AIProfile returns the AI profile named name.
func (s *Store) AIProfile(ctx context.Context, name string) (AIProfile, bool) {
	doc := s.snapshot(ctx)
	if i := doc.findAIProfile(name); i >= 0 {
		return doc.AI[i], true
	}
	return AIProfile{}, false
}

// Providers lists all provider accounts in stored order.
func (s *Store) Providers(ctx context.Context) []Provider {
	return s.snapshot(ctx).Providers
}

// Translations lists all translation accounts in stored order.
func (s *Store) Translations(ctx context.Context) []Translation {
	return s.snapshot(ctx).Translations
}

// EnabledTranslations lists translation accounts with on=true.
func (s *Store) EnabledTranslations(ctx context.Context) []Translation {
	var enabled []Translation
	for _, t := range s.Translations(ctx) {
		if t.On {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// AIProfiles lists all AI profiles in stored order.
func (s *Store) AIProfiles(ctx context.Context) []AIProfile {
	return s.snapshot(ctx).AI
}
