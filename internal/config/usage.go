package config

import (
	"context"
	"time"
)

// MonthKey formats t as YYYYMM in t's own location.
func MonthKey(t time.Time) string {
	return t.Format("200601")
}

// CurrentMonth returns the rollover key for the store's clock in local time.
func (s *Store) CurrentMonth() string {
	return MonthKey(s.now().Local())
}

// ResetMonthlyUsageIfStale zeroes the usage of every translation account
// whose watermark is not the current month. When every account is already
// current nothing is written. It returns false only if storage failed.
func (s *Store) ResetMonthlyUsageIfStale(ctx context.Context) bool {
	month := s.CurrentMonth()
	_, err := s.modify(ctx, func(doc *Document) bool {
		stale := false
		for i := range doc.Translations {
			t := &doc.Translations[i]
			if t.LastResetMonth != month {
				t.Used = 0
				t.LastResetMonth = month
				stale = true
			}
		}
		return stale
	})
	if err != nil {
		s.log.Error("Monthly usage reset failed", "month", month, "error", err)
		return false
	}
	return true
}

// ResetUsage forces the named account's counter to zero for the current
// month. It returns false when the account does not exist.
func (s *Store) ResetUsage(ctx context.Context, name string) bool {
	month := s.CurrentMonth()
	return s.update(ctx, "reset account usage", func(doc *Document) bool {
		i := doc.findTranslation(name)
		if i < 0 {
			return false
		}
		doc.Translations[i].Used = 0
		doc.Translations[i].LastResetMonth = month
		return true
	})
}

// AccrueUsage adds delta characters to the named account. It never rolls
// the month over itself; callers invoke ResetMonthlyUsageIfStale first.
func (s *Store) AccrueUsage(ctx context.Context, name string, delta int) bool {
	if delta < 0 {
		return false
	}
	return s.update(ctx, "accrue usage", func(doc *Document) bool {
		i := doc.findTranslation(name)
		if i < 0 {
			return false
		}
		doc.Translations[i].Used += delta
		return true
	})
}
