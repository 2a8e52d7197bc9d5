package models

import (
	"context"
	"fmt"
	"io"
	"sort"

	"codeberg.org/snonux/dowel/internal/aiclient"
	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
)

// Source queries an endpoint for its models.
type Source interface {
	ListModels(ctx context.Context, endpoint, key string) ([]aiclient.Model, error)
}

// Lister prints the models a configured provider serves
type Lister struct {
	store  *config.Store
	source Source
}

// NewLister creates a new model lister
func NewLister(store *config.Store, source Source) *Lister {
	return &Lister{store: store, source: source}
}

// List prints the models of providerName grouped by owner
func (l *Lister) List(ctx context.Context, providerName string, w io.Writer) error {
	provider, ok := l.store.Provider(ctx, providerName)
	if !ok {
		return apperr.ConfigurationMissing(providerName, "AI provider is not configured")
	}

	models, err := l.source.ListModels(ctx, provider.API, provider.Key)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	// Group by owner
	groups := make(map[string][]string)
	for _, m := range models {
		owner := m.OwnedBy
		if owner == "" {
			owner = "unknown"
		}
		groups[owner] = append(groups[owner], m.ID)
	}

	owners := make([]string, 0, len(groups))
	for owner := range groups {
		owners = append(owners, owner)
		sort.Strings(groups[owner])
	}
	sort.Strings(owners)

	fmt.Fprintf(w, "Available models for %s (%s):\n", provider.Name, provider.API)
	if len(owners) == 0 {
		fmt.Fprintln(w, "  No models found")
		return nil
	}
	for _, owner := range owners {
		fmt.Fprintf(w, "\n%s:\n", owner)
		for _, id := range groups[owner] {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}
