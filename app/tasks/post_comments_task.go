package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/vk-comb/app/feed"
)

type PostCommentsOptions struct {
	Owner int64   `long:"owner" required:"true" description:"Wall owner ID (negative for communities)"`
	Post  int64   `long:"post" required:"true" description:"Post ID"`
	Delay float64 `long:"delay" default:"0.3" description:"Delay between comment detail requests in seconds"`
}

type PostCommentsTask struct {
	Task
	opts PostCommentsOptions
	env  Env
	wall WallReader
}

func NewPostCommentsTask(opts PostCommentsOptions, env Env, wall WallReader) *PostCommentsTask {
	return &PostCommentsTask{
		Task: NewTask(TaskTypePostComments, opts.Owner),
		opts: opts,
		env:  env,
		wall: wall,
	}
}

type commentDetail struct {
	ID     int64  `json:"id"`
	FromID int64  `json:"from_id"`
	Date   int64  `json:"date"`
	Text   string `json:"text"`
	Likes  int    `json:"likes"`
	URL    string `json:"url"`
}

// Execute prints the detail of every comment on the first comment page as
// one JSON object per line.
func (t *PostCommentsTask) Execute(ctx context.Context) error {
	if t.opts.Owner == 0 {
		return ErrMissingOwner
	}
	if t.opts.Post == 0 {
		return fmt.Errorf("%w: --post is required", ErrInvalidOption)
	}

	comments, err := t.wall.GetComments(ctx, t.opts.Owner, t.opts.Post, feed.DefaultPageSize, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	enc := json.NewEncoder(t.env.out())
	enc.SetEscapeHTML(false)

	delay := seconds(t.opts.Delay)
	for i, c := range comments {
		if i > 0 {
			t.env.sleep(delay)
		}

		detail, err := t.wall.GetComment(ctx, t.opts.Owner, c.ID)
		if err != nil {
			slog.Warn("Failed to fetch comment", "comment_id", c.ID, "error", err)
			continue
		}
		if detail == nil {
			slog.Warn("Comment not available", "comment_id", c.ID)
			continue
		}

		date, _ := detail.Timestamp()
		if err := enc.Encode(commentDetail{
			ID:     detail.ID,
			FromID: detail.FromID,
			Date:   date,
			Text:   detail.Body(),
			Likes:  detail.LikeCount(),
			URL:    t.env.URLs.WallComment(t.opts.Owner, t.opts.Post, detail.ID),
		}); err != nil {
			return fmt.Errorf("failed to encode comment: %w", err)
		}
	}

	slog.Info("Comments listed", "owner_id", t.opts.Owner, "post_id", t.opts.Post, "comments", len(comments))
	return nil
}
