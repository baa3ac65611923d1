package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "api.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := database.NewPostStore(db)
	var posts []database.Post
	for i := int64(1); i <= 3; i++ {
		ts := int64(1700000000) + i*3600
		posts = append(posts, database.Post{
			PostID:    i,
			OwnerID:   -7,
			Timestamp: ts,
			Date:      time.Unix(ts, 0).Format(database.DateLayout),
			Text:      "Post number " + string(rune('0'+i)),
			Likes:     int(i) * 10,
			URL:       vkapi.NewURLBuilder("").WallPost(-7, i),
		})
	}
	_, err = store.Save(-7, posts, database.SkipDuplicates)
	require.NoError(t, err)

	handler := NewHandler(store, vkapi.NewURLBuilder(""), "http://localhost:8080/", "test")
	return NewServer(handler)
}

func get(t *testing.T, server http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(t), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if body["owners"] != float64(1) || body["posts"] != float64(3) {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestStats(t *testing.T) {
	w := get(t, newTestServer(t), "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Owners []ownerStatsResponse `json:"owners"`
		Total  int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Owners, 1)

	owner := body.Owners[0]
	if owner.OwnerID != -7 || owner.Posts != 3 {
		t.Errorf("Unexpected owner stats: %+v", owner)
	}
	if owner.AvgLikes != 20 {
		t.Errorf("Expected average likes 20, got %v", owner.AvgLikes)
	}
	if owner.FeedURL != "http://localhost:8080/owners/-7/feed" {
		t.Errorf("Unexpected feed URL: %s", owner.FeedURL)
	}
}

func TestOwnerPosts_JSON(t *testing.T) {
	w := get(t, newTestServer(t), "/owners/-7/posts?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Unexpected content type: %s", ct)
	}

	var rows []export.PostRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	if rows[0].ID != 3 || rows[1].ID != 2 {
		t.Errorf("Expected newest posts first, got %d, %d", rows[0].ID, rows[1].ID)
	}
}

func TestOwnerPosts_CSV(t *testing.T) {
	w := get(t, newTestServer(t), "/owners/-7/posts?format=csv")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	if !strings.HasPrefix(body, "\ufeffdate,text,likes,reposts,comments,url\n") {
		t.Errorf("Unexpected CSV header: %q", body)
	}
	if got := strings.Count(strings.TrimSpace(body), "\n"); got != 3 {
		t.Errorf("Expected 3 data rows, got %d", got)
	}
	if w.Header().Get("X-Owner-Posts") != "3" {
		t.Errorf("Unexpected X-Owner-Posts header: %s", w.Header().Get("X-Owner-Posts"))
	}
}

func TestOwnerPosts_Markdown(t *testing.T) {
	w := get(t, newTestServer(t), "/owners/-7/posts?format=markdown")
	require.Equal(t, http.StatusOK, w.Code)

	if !strings.Contains(w.Body.String(), "**Total posts:** 3") {
		t.Errorf("Missing total line: %q", w.Body.String())
	}
}

func TestOwnerPosts_BadRequests(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{
		"/owners/abc/posts",
		"/owners/0/posts",
		"/owners/-7/posts?format=table",
		"/owners/-7/posts?format=xml",
		"/owners/-7/posts?limit=-1",
	} {
		if w := get(t, server, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestOwnerPosts_UnknownOwnerIsEmpty(t *testing.T) {
	w := get(t, newTestServer(t), "/owners/-99/posts")
	require.Equal(t, http.StatusOK, w.Code)

	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %q", w.Body.String())
	}
}

func TestOwnerFeed(t *testing.T) {
	server := newTestServer(t)

	w := get(t, server, "/owners/-7/feed")
	require.Equal(t, http.StatusOK, w.Code)

	parsed, err := gofeed.NewParser().ParseString(w.Body.String())
	require.NoError(t, err)

	if parsed.Link != "https://vk.com/wall-7" {
		t.Errorf("Unexpected channel link: %s", parsed.Link)
	}
	require.Len(t, parsed.Items, 3)
	if parsed.Items[0].Link != "https://vk.com?w=wall-7_3" {
		t.Errorf("Unexpected first item link: %s", parsed.Items[0].Link)
	}
	if parsed.Generator != "VK-Comb/test" {
		t.Errorf("Unexpected generator: %s", parsed.Generator)
	}

	if w := get(t, server, "/owners/-99/feed"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for owner without posts, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/stats", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header")
	}
}
