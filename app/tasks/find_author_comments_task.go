package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

type FindAuthorCommentsOptions struct {
	Owner  int64   `long:"owner" required:"true" description:"Wall owner ID (negative for communities)"`
	Author int64   `long:"author" required:"true" description:"Comment author ID"`
	Delay  float64 `long:"delay" default:"1" description:"Delay between post pages in seconds"`
}

type FindAuthorCommentsTask struct {
	Task
	opts FindAuthorCommentsOptions
	env  Env
	wall WallReader
}

func NewFindAuthorCommentsTask(opts FindAuthorCommentsOptions, env Env, wall WallReader) *FindAuthorCommentsTask {
	return &FindAuthorCommentsTask{
		Task: NewTask(TaskTypeFindAuthorComments, opts.Owner),
		opts: opts,
		env:  env,
		wall: wall,
	}
}

func (t *FindAuthorCommentsTask) Execute(ctx context.Context) error {
	if t.opts.Owner == 0 {
		return ErrMissingOwner
	}
	if t.opts.Author == 0 {
		return fmt.Errorf("%w: --author is required", ErrInvalidOption)
	}

	found := 0
	postPages := t.env.paginator(seconds(t.opts.Delay))
	commentPages := t.env.paginator(0)

	stats, err := feed.Walk(ctx, postPages, wallPosts(t.wall, t.opts.Owner), func(posts []vkapi.Post) error {
		for _, post := range posts {
			_, err := feed.Walk(ctx, commentPages, wallComments(t.wall, t.opts.Owner, post.ID), func(comments []vkapi.Comment) error {
				for _, c := range comments {
					if c.FromID != t.opts.Author {
						continue
					}
					found++
					fmt.Fprintln(t.env.out(), c.Body())
					fmt.Fprintln(t.env.out(), t.env.URLs.WallComment(t.opts.Owner, post.ID, c.ID))
				}
				return nil
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("Failed to scan comments", "owner_id", t.opts.Owner, "post_id", post.ID, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan wall: %w", err)
	}

	slog.Info("Comment scan finished", "owner_id", t.opts.Owner, "author", t.opts.Author, "posts", stats.Processed, "found", found)
	return nil
}
