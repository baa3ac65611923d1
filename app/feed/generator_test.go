package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator()

	posts := []database.Post{
		{
			PostID:    2,
			OwnerID:   -1,
			Timestamp: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC).Unix(),
			Text:      "Привет\nмир & друзья",
			Likes:     5,
			URL:       "https://vk.com?w=wall-1_2",
		},
		{
			PostID:    1,
			OwnerID:   -1,
			Timestamp: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC).Unix(),
			URL:       "https://vk.com?w=wall-1_1",
		},
	}

	channel := Channel{
		OwnerID:  -1,
		Link:     "https://vk.com/wall-1",
		SelfLink: "http://localhost:8080/owners/-1/feed",
		Version:  "test",
	}

	rss, err := generator.Run(channel, posts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}

	if !strings.Contains(rss, `<atom:link href="http://localhost:8080/owners/-1/feed" rel="self" type="application/rss+xml" />`) {
		t.Error("RSS should contain atom:link self reference")
	}

	if !strings.Contains(rss, "<generator>VK-Comb/test</generator>") {
		t.Error("RSS should contain generator with version")
	}

	parsed, err := gofeed.NewParser().ParseString(rss)
	require.NoError(t, err)

	if parsed.Title != "VK wall -1" {
		t.Errorf("Unexpected channel title: %q", parsed.Title)
	}
	require.Len(t, parsed.Items, 2)

	first := parsed.Items[0]
	if first.Link != "https://vk.com?w=wall-1_2" {
		t.Errorf("Unexpected first item link: %q", first.Link)
	}
	if first.Title != "Привет мир & друзья" {
		t.Errorf("Title should be single-line and unescaped after parsing, got %q", first.Title)
	}
	if first.PublishedParsed == nil || first.PublishedParsed.Unix() != posts[0].Timestamp {
		t.Errorf("Unexpected first item pubDate: %v", first.PublishedParsed)
	}

	if parsed.Items[1].Title != "Post 1" {
		t.Errorf("Post without text should get a fallback title, got %q", parsed.Items[1].Title)
	}
}

func TestGenerateWithNoPosts(t *testing.T) {
	generator := NewGenerator()
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	generator.now = func() time.Time { return fixed }

	rss, err := generator.Run(Channel{OwnerID: 7}, nil)
	if err != nil {
		t.Fatalf("Expected no error with no posts, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("RSS should not contain items")
	}

	if strings.Contains(rss, "atom:link href") {
		t.Error("RSS should omit atom:link when no self link is configured")
	}

	parsed, err := gofeed.NewParser().ParseString(rss)
	require.NoError(t, err)
	if parsed.UpdatedParsed == nil || !parsed.UpdatedParsed.Equal(fixed) {
		t.Errorf("lastBuildDate should fall back to now, got %v", parsed.UpdatedParsed)
	}
}
