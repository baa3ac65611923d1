package feed

import (
	"context"
	"log/slog"
	"time"
)

const DefaultPageSize = 100

// PageFunc fetches count items starting at offset. An empty result ends
// pagination.
type PageFunc[T any] func(ctx context.Context, offset, count int) ([]T, error)

// Dated is an item carrying a Unix creation time.
type Dated interface {
	Timestamp() (int64, bool)
}

// Paginator drives offset-based paging. Delay is applied between requests
// only, never after the last page.
type Paginator struct {
	PageSize int
	Delay    time.Duration
	Sleep    func(time.Duration)
}

type PageStats struct {
	Pages     int
	Processed int
}

func NewPaginator(delay time.Duration) Paginator {
	return Paginator{PageSize: DefaultPageSize, Delay: delay, Sleep: time.Sleep}
}

func (p Paginator) size() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

func (p Paginator) pause() {
	if p.Delay <= 0 {
		return
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(p.Delay)
}

// Walk visits every page until the upstream returns an empty one.
func Walk[T any](ctx context.Context, p Paginator, fetch PageFunc[T], visit func(page []T) error) (PageStats, error) {
	var stats PageStats
	size := p.size()

	for offset := 0; ; offset += size {
		if offset > 0 {
			p.pause()
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		page, err := fetch(ctx, offset, size)
		if err != nil {
			return stats, err
		}
		if len(page) == 0 {
			return stats, nil
		}

		stats.Pages++
		stats.Processed += len(page)
		slog.Debug("Fetched page", "offset", offset, "items", len(page))

		if err := visit(page); err != nil {
			return stats, err
		}
	}
}

// Collect gathers every item, treating a short page as the last one.
func Collect[T any](ctx context.Context, p Paginator, fetch PageFunc[T]) ([]T, PageStats, error) {
	var (
		all   []T
		stats PageStats
	)
	size := p.size()

	for offset := 0; ; offset += size {
		if offset > 0 {
			p.pause()
		}
		if err := ctx.Err(); err != nil {
			return all, stats, err
		}

		page, err := fetch(ctx, offset, size)
		if err != nil {
			return all, stats, err
		}
		if len(page) == 0 {
			return all, stats, nil
		}

		stats.Pages++
		stats.Processed += len(page)
		all = append(all, page...)

		if len(page) < size {
			return all, stats, nil
		}
	}
}

// Bounded gathers items whose timestamps fall within [from, to]. Pages are
// expected newest first: the first item older than from ends pagination,
// items newer than to are skipped. Items without a timestamp are skipped.
func Bounded[T Dated](ctx context.Context, p Paginator, fetch PageFunc[T], from, to int64) ([]T, PageStats, error) {
	var (
		kept  []T
		stats PageStats
	)
	size := p.size()

	for offset := 0; ; offset += size {
		if offset > 0 {
			p.pause()
		}
		if err := ctx.Err(); err != nil {
			return kept, stats, err
		}

		page, err := fetch(ctx, offset, size)
		if err != nil {
			return kept, stats, err
		}
		if len(page) == 0 {
			return kept, stats, nil
		}
		stats.Pages++

		for _, item := range page {
			stats.Processed++

			ts, ok := item.Timestamp()
			if !ok {
				continue
			}
			if ts < from {
				slog.Debug("Reached item older than range", "offset", offset, "timestamp", ts)
				return kept, stats, nil
			}
			if ts > to {
				continue
			}
			kept = append(kept, item)
		}

		if len(page) < size {
			return kept, stats, nil
		}
	}
}
