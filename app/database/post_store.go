package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// PostStore handles database operations for stored wall posts
type PostStore struct {
	db  *DB
	now func() time.Time
}

func NewPostStore(db *DB) *PostStore {
	return &PostStore{db: db, now: time.Now}
}

func (r *PostStore) stamp() string {
	return r.now().UTC().Format(stampLayout)
}

func nullableText(text string) sql.NullString {
	return sql.NullString{String: text, Valid: text != ""}
}

func (r *PostStore) Exists(ownerID, postID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM vk_posts WHERE owner_id = ? AND post_id = ? LIMIT 1`, ownerID, postID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return true, nil
}

func (r *PostStore) Insert(post Post) error {
	now := r.stamp()
	_, err := r.db.Exec(`
		INSERT INTO vk_posts (
			post_id, owner_id, timestamp, date, text,
			likes, reposts, comments, url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.PostID, post.OwnerID, post.Timestamp, post.Date, nullableText(post.Text),
		post.Likes, post.Reposts, post.Comments, post.URL, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert post %d_%d: %w", post.OwnerID, post.PostID, err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing row.
func (r *PostStore) Update(post Post) error {
	_, err := r.db.Exec(`
		UPDATE vk_posts
		SET timestamp = ?, date = ?, text = ?, likes = ?, reposts = ?,
		    comments = ?, url = ?, updated_at = ?
		WHERE owner_id = ? AND post_id = ?
	`, post.Timestamp, post.Date, nullableText(post.Text), post.Likes, post.Reposts,
		post.Comments, post.URL, r.stamp(), post.OwnerID, post.PostID)
	if err != nil {
		return fmt.Errorf("failed to update post %d_%d: %w", post.OwnerID, post.PostID, err)
	}
	return nil
}

func (r *PostStore) DeleteByOwner(ownerID int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM vk_posts WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear posts for owner %d: %w", ownerID, err)
	}
	return res.RowsAffected()
}

// Save persists posts under the given policy. Per-post failures are logged
// and counted as skipped; only the initial clear can fail the batch.
func (r *PostStore) Save(ownerID int64, posts []Post, policy SavePolicy) (SaveResult, error) {
	var result SaveResult

	if policy == ClearThenInsert {
		cleared, err := r.DeleteByOwner(ownerID)
		if err != nil {
			return result, err
		}
		result.Cleared = cleared
	}

	for _, post := range posts {
		post.OwnerID = ownerID

		exists, err := r.Exists(ownerID, post.PostID)
		if err != nil {
			slog.Warn("Failed to save post", "owner_id", ownerID, "post_id", post.PostID, "error", err)
			result.Skipped++
			continue
		}

		switch {
		case exists && policy == UpdateOrInsert:
			err = r.Update(post)
			if err == nil {
				result.Updated++
			}
		case exists:
			result.Skipped++
			continue
		default:
			err = r.Insert(post)
			if err == nil {
				result.Saved++
			}
		}

		if err != nil {
			slog.Warn("Failed to save post", "owner_id", ownerID, "post_id", post.PostID, "error", err)
			result.Skipped++
		}
	}

	return result, nil
}

// GetByOwner returns the owner's posts, newest first. A limit of zero or
// less returns every row.
func (r *PostStore) GetByOwner(ownerID int64, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT id, post_id, owner_id, timestamp, date, COALESCE(text, ''),
		       likes, reposts, comments, url, created_at, updated_at
		FROM vk_posts
		WHERE owner_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var (
			post                 Post
			createdAt, updatedAt string
		)
		err := rows.Scan(
			&post.ID, &post.PostID, &post.OwnerID, &post.Timestamp, &post.Date, &post.Text,
			&post.Likes, &post.Reposts, &post.Comments, &post.URL, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		post.CreatedAt, _ = time.Parse(stampLayout, createdAt)
		post.UpdatedAt, _ = time.Parse(stampLayout, updatedAt)
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *PostStore) Count(ownerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM vk_posts WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

func (r *PostStore) GetOwnerStats() ([]OwnerStats, error) {
	rows, err := r.db.Query(`
		SELECT owner_id, COUNT(*), AVG(likes), AVG(reposts), AVG(comments), MAX(timestamp)
		FROM vk_posts
		GROUP BY owner_id
		ORDER BY owner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner stats: %w", err)
	}
	defer rows.Close()

	var stats []OwnerStats
	for rows.Next() {
		var s OwnerStats
		if err := rows.Scan(&s.OwnerID, &s.Posts, &s.AvgLikes, &s.AvgReposts, &s.AvgComments, &s.LatestPostAt); err != nil {
			return nil, fmt.Errorf("failed to scan owner stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owner stats: %w", err)
	}

	return stats, nil
}
