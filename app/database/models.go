package database

import (
	"time"
)

// DateLayout is the human-readable form of a post timestamp.
const DateLayout = "2006-01-02 15:04:05"

// stampLayout is fixed-width so stored audit times sort lexically.
const stampLayout = "2006-01-02 15:04:05.000000"

// Post is a stored wall post keyed by (OwnerID, PostID).
type Post struct {
	ID        int64
	PostID    int64
	OwnerID   int64
	Timestamp int64
	Date      string
	Text      string
	Likes     int
	Reposts   int
	Comments  int
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckEntry is a row of the best-effort snapshot table.
type CheckEntry struct {
	ID        int64
	GroupName string
	GroupID   int64
	PostText  string
	Likes     int
	Reposts   int
	CachedAt  time.Time
}

type OwnerStats struct {
	OwnerID      int64
	Posts        int
	AvgLikes     float64
	AvgReposts   float64
	AvgComments  float64
	LatestPostAt int64
}
