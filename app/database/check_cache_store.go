package database

import (
	"fmt"
	"time"
)

// CheckCacheStore keeps the latest check snapshot. It has no key: every
// refresh clears the table first.
type CheckCacheStore struct {
	db  *DB
	now func() time.Time
}

func NewCheckCacheStore(db *DB) *CheckCacheStore {
	return &CheckCacheStore{db: db, now: time.Now}
}

func (s *CheckCacheStore) HasEntries() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM check_cache`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count check cache: %w", err)
	}
	return count > 0, nil
}

func (s *CheckCacheStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM check_cache`); err != nil {
		return fmt.Errorf("failed to clear check cache: %w", err)
	}
	return nil
}

func (s *CheckCacheStore) Insert(entry CheckEntry) error {
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = s.now()
	}

	_, err := s.db.Exec(`
		INSERT INTO check_cache (group_name, group_id, post_text, likes, reposts, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.GroupName, entry.GroupID, entry.PostText, entry.Likes, entry.Reposts,
		cachedAt.UTC().Format(stampLayout))
	if err != nil {
		return fmt.Errorf("failed to insert check cache entry: %w", err)
	}
	return nil
}

// List returns snapshot rows, most recently cached first.
func (s *CheckCacheStore) List() ([]CheckEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, group_name, group_id, post_text, likes, reposts, cached_at
		FROM check_cache
		ORDER BY cached_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list check cache: %w", err)
	}
	defer rows.Close()

	var entries []CheckEntry
	for rows.Next() {
		var (
			entry    CheckEntry
			cachedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.GroupName, &entry.GroupID, &entry.PostText,
			&entry.Likes, &entry.Reposts, &cachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check cache row: %w", err)
		}
		entry.CachedAt, _ = time.Parse(stampLayout, cachedAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check cache rows: %w", err)
	}

	return entries, nil
}
