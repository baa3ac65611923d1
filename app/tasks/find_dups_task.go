package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

type FindDupsOptions struct {
	Owner int64   `long:"owner" required:"true" description:"Wall owner ID (negative for communities)"`
	Text  string  `long:"text" required:"true" description:"Case-insensitive regular expression to look for"`
	Delay float64 `long:"delay" default:"0" description:"Delay between page requests in seconds"`
}

type FindDupsTask struct {
	Task
	opts FindDupsOptions
	env  Env
	wall WallReader
}

func NewFindDupsTask(opts FindDupsOptions, env Env, wall WallReader) *FindDupsTask {
	return &FindDupsTask{
		Task: NewTask(TaskTypeFindDups, opts.Owner),
		opts: opts,
		env:  env,
		wall: wall,
	}
}

type dupMatch struct {
	URL     string `json:"url"`
	Likes   int    `json:"likes"`
	Reposts int    `json:"reposts"`
}

func (t *FindDupsTask) Execute(ctx context.Context) error {
	if t.opts.Owner == 0 {
		return ErrMissingOwner
	}
	if t.opts.Text == "" {
		return fmt.Errorf("%w: --text is required", ErrInvalidOption)
	}

	pattern, err := regexp.Compile("(?i)" + t.opts.Text)
	if err != nil {
		return fmt.Errorf("%w: --text is not a valid pattern: %v", ErrInvalidOption, err)
	}

	enc := json.NewEncoder(t.env.out())
	enc.SetEscapeHTML(false)

	matches := 0
	stats, err := feed.Walk(ctx, t.env.paginator(seconds(t.opts.Delay)), wallPosts(t.wall, t.opts.Owner), func(posts []vkapi.Post) error {
		for _, p := range posts {
			if !pattern.MatchString(p.Body()) {
				continue
			}
			matches++
			if err := enc.Encode(dupMatch{
				URL:     t.env.URLs.WallPost(t.opts.Owner, p.ID),
				Likes:   p.LikeCount(),
				Reposts: p.RepostCount(),
			}); err != nil {
				return fmt.Errorf("failed to encode match: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan wall: %w", err)
	}

	slog.Info("Duplicate scan finished", "owner_id", t.opts.Owner, "posts", stats.Processed, "matches", matches)
	return nil
}
