package api

import (
	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

const defaultFeedItems = 50

type GeneratorInterface interface {
	Run(channel feed.Channel, posts []database.Post) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// PostReader is the read side of the post store the server needs.
type PostReader interface {
	GetByOwner(ownerID int64, limit int) ([]database.Post, error)
	Count(ownerID int64) (int, error)
	GetOwnerStats() ([]database.OwnerStats, error)
}

var _ PostReader = (*database.PostStore)(nil)

type Handler struct {
	posts     PostReader
	generator GeneratorInterface
	urls      vkapi.URLBuilder
	baseURL   string
	version   string
	feedItems int
}

type ownerStatsResponse struct {
	OwnerID      int64   `json:"owner_id"`
	Posts        int     `json:"posts"`
	AvgLikes     float64 `json:"avg_likes"`
	AvgReposts   float64 `json:"avg_reposts"`
	AvgComments  float64 `json:"avg_comments"`
	LatestPostAt string  `json:"latest_post_at,omitempty"`
	PostsURL     string  `json:"posts_url,omitempty"`
	FeedURL      string  `json:"feed_url,omitempty"`
}
