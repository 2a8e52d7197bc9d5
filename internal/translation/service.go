package translation

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/transport"
)

// Service translates through configured accounts and records usage.
type Service struct {
	store     *config.Store
	transport transport.Port
	cache     *Cache
	log       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithCache serves repeated translations from c instead of the network.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService creates a translation service.
func NewService(store *config.Store, tp transport.Port, opts ...Option) *Service {
	s := &Service{store: store, transport: tp, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate translates text with the account called name. Missing
// configuration and exhausted quotas fail before any request is sent, and
// before the cache is consulted.
// Usage is accrued once per successful request; a failed accrual is logged
// and does not affect the result.
func (s *Service) Translate(ctx context.Context, name, text, from, to string) (Result, error) {
	kind, ok := Lookup(name)
	if !ok {
		return Result{}, apperr.ConfigurationMissing(name, "unknown translation service")
	}
	if _, ok := s.store.Translation(ctx, name); !ok {
		return Result{}, apperr.ConfigurationMissing(name, "translation account is not configured")
	}

	if !s.store.ResetMonthlyUsageIfStale(ctx) {
		s.log.Warn("Monthly usage reset failed", "provider", name)
	}

	// Re-read: the reset may have changed the counters.
	account, ok := s.store.Translation(ctx, name)
	if !ok {
		return Result{}, apperr.ConfigurationMissing(name, "translation account is not configured")
	}
	if account.Key == "" || account.Secret == "" {
		return Result{}, apperr.ConfigurationMissing(name, "translation account has no credentials")
	}
	if account.Exhausted() {
		return Result{}, &apperr.Error{
			Kind:     apperr.KindQuotaExceeded,
			Provider: name,
			Message:  "monthly character limit reached",
		}
	}

	// A cached answer costs the provider nothing, so it accrues no usage.
	if s.cache != nil {
		if r, ok := s.cache.Get(name, text, from, to); ok {
			return r, nil
		}
	}

	result, err := kind.TranslateWithKey(ctx, s.transport, text, from, to, account.API, account.Key, account.Secret)
	if err != nil {
		s.log.Debug("Translation failed", "provider", name, "error", err)
		return Result{}, err
	}

	if !s.store.AccrueUsage(ctx, name, utf8.RuneCountInString(text)) {
		s.log.Warn("Failed to record translation usage", "provider", name)
	}
	if s.cache != nil {
		s.cache.Add(name, result)
	}
	return result, nil
}

// Outcome is one provider's answer in a fan-out.
type Outcome struct {
	Name   string
	Result Result
	Err    error
}

// TranslateAll queries every named account concurrently. Outcomes are in
// the order of names; one failure does not affect the others.
func (s *Service) TranslateAll(ctx context.Context, names []string, text, from, to string) []Outcome {
	outcomes := make([]Outcome, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			r, err := s.Translate(ctx, name, text, from, to)
			outcomes[i] = Outcome{Name: name, Result: r, Err: err}
		}(i, name)
	}
	wg.Wait()

	return outcomes
}

// TranslateEnabled fans out to every enabled account.
func (s *Service) TranslateEnabled(ctx context.Context, text, from, to string) []Outcome {
	var names []string
	for _, t := range s.store.EnabledTranslations(ctx) {
		names = append(names, t.Name)
	}
	return s.TranslateAll(ctx, names, text, from, to)
}
