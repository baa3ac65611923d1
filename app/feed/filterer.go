package feed

import (
	"fmt"
	"log/slog"
)

// Engaged is an item the filter chain can inspect.
type Engaged interface {
	Body() string
	LikeCount() int
	RepostCount() int
}

// FilterConfig holds the active predicates. Zero thresholds are unset.
type FilterConfig struct {
	WithTextOnly bool
	MinLikes     int
	MinReposts   int
}

func (c FilterConfig) Active() bool {
	return c.WithTextOnly || c.MinLikes > 0 || c.MinReposts > 0
}

type Filterer struct {
	config FilterConfig
}

func NewFilterer(config FilterConfig) *Filterer {
	return &Filterer{config: config}
}

// Check evaluates predicates in order and stops at the first rejection.
func (f *Filterer) Check(item Engaged) (bool, string) {
	if f.config.WithTextOnly && item.Body() == "" {
		return true, "Excluded by text filter: empty text"
	}

	if f.config.MinLikes > 0 && item.LikeCount() < f.config.MinLikes {
		return true, fmt.Sprintf("Excluded by likes filter: %d < %d", item.LikeCount(), f.config.MinLikes)
	}

	if f.config.MinReposts > 0 && item.RepostCount() < f.config.MinReposts {
		return true, fmt.Sprintf("Excluded by reposts filter: %d < %d", item.RepostCount(), f.config.MinReposts)
	}

	return false, ""
}

// Run keeps the items that pass every predicate, preserving order.
func Run[T Engaged](f *Filterer, items []T) []T {
	if !f.config.Active() {
		return items
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if filtered, reason := f.Check(item); filtered {
			slog.Debug("Item filtered", "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}
