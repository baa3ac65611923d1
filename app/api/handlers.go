package api

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

var contentTypes = map[export.Format]string{
	export.FormatJSON:     "application/json; charset=utf-8",
	export.FormatCSV:      "text/csv; charset=utf-8",
	export.FormatMarkdown: "text/markdown; charset=utf-8",
}

// NewHandler serves stored posts. baseURL is the public address of the
// server and only appears in links; it may be empty.
func NewHandler(posts PostReader, urls vkapi.URLBuilder, baseURL, version string) *Handler {
	return &Handler{
		posts:     posts,
		generator: feed.NewGenerator(),
		urls:      urls,
		baseURL:   strings.TrimRight(baseURL, "/"),
		version:   version,
		feedItems: defaultFeedItems,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if stats, err := h.posts.GetOwnerStats(); err == nil {
		total := 0
		for _, s := range stats {
			total += s.Posts
		}
		health["owners"] = len(stats)
		health["posts"] = total
	} else {
		slog.Error("Database error", "operation", "get_owner_stats", "error", err)
		health["database"] = "unavailable"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.posts.GetOwnerStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_owner_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	owners := make([]ownerStatsResponse, 0, len(stats))
	for _, s := range stats {
		r := ownerStatsResponse{
			OwnerID:     s.OwnerID,
			Posts:       s.Posts,
			AvgLikes:    s.AvgLikes,
			AvgReposts:  s.AvgReposts,
			AvgComments: s.AvgComments,
			PostsURL:    h.link("/owners/%d/posts", s.OwnerID),
			FeedURL:     h.link("/owners/%d/feed", s.OwnerID),
		}
		if s.LatestPostAt > 0 {
			r.LatestPostAt = time.Unix(s.LatestPostAt, 0).In(time.Local).Format(time.RFC3339)
		}
		owners = append(owners, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"owners": owners,
		"total":  len(owners),
	})
}

// GetOwnerPosts exports an owner's stored posts. The table format is
// console-only and rejected here.
func (h *Handler) GetOwnerPosts(c *gin.Context) {
	ownerID, ok := ownerParam(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(cmp.Or(c.Query("format"), string(export.FormatJSON)))
	if err != nil || format == export.FormatTable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format", "allowed": "json, csv, markdown"})
		return
	}

	limit, err := strconv.Atoi(cmp.Or(c.Query("limit"), "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	posts, err := h.posts.GetByOwner(ownerID, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	rows := make([]export.PostRow, len(posts))
	for i, p := range posts {
		rows[i] = export.PostRow{
			ID:        p.PostID,
			Date:      p.Date,
			Timestamp: p.Timestamp,
			Text:      p.Text,
			Likes:     p.Likes,
			Reposts:   p.Reposts,
			Comments:  p.Comments,
			URL:       p.URL,
		}
	}

	body, err := export.New(export.PostSchema, io.Discard).Render(rows, format)
	if err != nil {
		slog.Error("Export error", "owner_id", ownerID, "format", string(format), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export error"})
		return
	}

	c.Header("X-Owner-Posts", strconv.Itoa(len(rows)))
	c.Data(http.StatusOK, contentTypes[format], []byte(body))
}

func (h *Handler) GetOwnerFeed(c *gin.Context) {
	ownerID, ok := ownerParam(c)
	if !ok {
		return
	}

	count, err := h.posts.Count(ownerID)
	if err != nil {
		slog.Error("Database error", "operation", "count_posts", "owner_id", ownerID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if count == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	posts, err := h.posts.GetByOwner(ownerID, h.feedItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "owner_id", ownerID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	channel := feed.Channel{
		OwnerID:  ownerID,
		Link:     h.urls.Wall(ownerID),
		SelfLink: h.link("/owners/%d/feed", ownerID),
		Version:  h.version,
	}

	rss, err := h.generator.Run(channel, posts)
	if err != nil {
		slog.Error("RSS generation error", "owner_id", ownerID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) link(format string, args ...any) string {
	if h.baseURL == "" {
		return ""
	}
	return h.baseURL + fmt.Sprintf(format, args...)
}

func ownerParam(c *gin.Context) (int64, bool) {
	ownerID, err := strconv.ParseInt(c.Param("owner"), 10, 64)
	if err != nil || ownerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner parameter"})
		return 0, false
	}
	return ownerID, true
}
