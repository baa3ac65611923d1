package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/period"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

type GetPostsOptions struct {
	Owner        int64   `long:"owner" required:"true" description:"Wall owner ID (negative for communities)"`
	From         string  `long:"from" required:"true" description:"Range start: YYYY-MM-DD[ HH:MM:SS], today, yesterday, last week, last month"`
	To           string  `long:"to" description:"Range end, defaults to now"`
	Format       string  `long:"format" default:"table" description:"Output format: table, json, csv, markdown"`
	Output       string  `long:"output" description:"Write results to this file instead of the console"`
	DB           bool    `long:"db" description:"Save posts to the database instead of printing them"`
	Clear        bool    `long:"clear" description:"Delete the owner's stored posts before saving (requires --db)"`
	Update       bool    `long:"update" description:"Update stored posts that already exist (requires --db)"`
	WithTextOnly bool    `long:"with-text-only" description:"Keep only posts with text"`
	MinLikes     int     `long:"min-likes" description:"Minimum number of likes"`
	MinReposts   int     `long:"min-reposts" description:"Minimum number of reposts"`
	Delay        float64 `long:"delay" default:"0.3" description:"Delay between page requests in seconds"`
}

func (o GetPostsOptions) policy() database.SavePolicy {
	switch {
	case o.Clear:
		return database.ClearThenInsert
	case o.Update:
		return database.UpdateOrInsert
	default:
		return database.SkipDuplicates
	}
}

type GetPostsTask struct {
	Task
	opts  GetPostsOptions
	env   Env
	wall  WallReader
	posts func() (database.PostRepository, error)
}

// NewGetPostsTask builds the task. posts is only called when --db is set.
func NewGetPostsTask(opts GetPostsOptions, env Env, wall WallReader, posts func() (database.PostRepository, error)) *GetPostsTask {
	return &GetPostsTask{
		Task:  NewTask(TaskTypeGetPosts, opts.Owner),
		opts:  opts,
		env:   env,
		wall:  wall,
		posts: posts,
	}
}

func (t *GetPostsTask) validate() (period.Range, export.Format, error) {
	if t.opts.Owner == 0 {
		return period.Range{}, "", ErrMissingOwner
	}
	if t.opts.From == "" {
		return period.Range{}, "", fmt.Errorf("%w: --from is required", ErrInvalidOption)
	}
	if t.opts.Clear && t.opts.Update {
		return period.Range{}, "", fmt.Errorf("%w: --clear and --update are mutually exclusive", ErrInvalidOption)
	}
	if (t.opts.Clear || t.opts.Update) && !t.opts.DB {
		return period.Range{}, "", fmt.Errorf("%w: --clear and --update require --db", ErrInvalidOption)
	}
	if t.opts.MinLikes < 0 || t.opts.MinReposts < 0 {
		return period.Range{}, "", fmt.Errorf("%w: thresholds must be non-negative", ErrInvalidOption)
	}

	r, err := period.NewRange(t.opts.From, t.opts.To, t.env.now())
	if err != nil {
		return period.Range{}, "", err
	}

	format, err := export.ParseFormat(t.opts.Format)
	if err != nil {
		return period.Range{}, "", err
	}

	if !t.opts.DB {
		if err := prepareOutput(t.opts.Output); err != nil {
			return period.Range{}, "", err
		}
	}

	return r, format, nil
}

func (t *GetPostsTask) Execute(ctx context.Context) error {
	r, format, err := t.validate()
	if err != nil {
		return err
	}

	slog.Info("Fetching posts", "owner_id", t.opts.Owner, "range", r.String())

	paginator := t.env.paginator(seconds(t.opts.Delay))
	inRange, stats, err := feed.Bounded(ctx, paginator, wallPosts(t.wall, t.opts.Owner), r.From, r.To)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	filterer := feed.NewFilterer(feed.FilterConfig{
		WithTextOnly: t.opts.WithTextOnly,
		MinLikes:     t.opts.MinLikes,
		MinReposts:   t.opts.MinReposts,
	})
	posts := feed.Run(filterer, inRange)
	slog.Debug("Posts fetched", "pages", stats.Pages, "processed", stats.Processed, "in_range", len(inRange), "kept", len(posts))

	if len(posts) == 0 {
		slog.Warn("No posts found for the given period", "owner_id", t.opts.Owner)
		if t.opts.DB && t.opts.Clear {
			return t.save(nil)
		}
		return nil
	}

	slices.SortStableFunc(posts, func(a, b vkapi.Post) int {
		ta, _ := a.Timestamp()
		tb, _ := b.Timestamp()
		return cmp.Compare(tb, ta)
	})

	if t.opts.DB {
		if err := t.save(posts); err != nil {
			return err
		}
	} else if err := emit(t.env, export.PostSchema, t.rows(posts), format, t.opts.Output); err != nil {
		return err
	}

	logStatistics(posts)
	return nil
}

func (t *GetPostsTask) rows(posts []vkapi.Post) []export.PostRow {
	rows := make([]export.PostRow, len(posts))
	for i, p := range posts {
		ts, _ := p.Timestamp()
		rows[i] = export.PostRow{
			ID:        p.ID,
			Date:      formatTimestamp(ts),
			Timestamp: ts,
			Text:      p.Body(),
			Likes:     p.LikeCount(),
			Reposts:   p.RepostCount(),
			Comments:  p.CommentCount(),
			URL:       t.env.URLs.WallPost(t.opts.Owner, p.ID),
		}
	}
	return rows
}

func (t *GetPostsTask) save(posts []vkapi.Post) error {
	repo, err := t.posts()
	if err != nil {
		return fmt.Errorf("failed to open post store: %w", err)
	}

	records := make([]database.Post, len(posts))
	for i, p := range posts {
		ts, _ := p.Timestamp()
		records[i] = database.Post{
			PostID:    p.ID,
			OwnerID:   t.opts.Owner,
			Timestamp: ts,
			Date:      formatTimestamp(ts),
			Text:      p.Body(),
			Likes:     p.LikeCount(),
			Reposts:   p.RepostCount(),
			Comments:  p.CommentCount(),
			URL:       t.env.URLs.WallPost(t.opts.Owner, p.ID),
		}
	}

	policy := t.opts.policy()
	result, err := repo.Save(t.opts.Owner, records, policy)
	if err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}

	slog.Info("Posts saved", "owner_id", t.opts.Owner, "policy", policy.String(),
		"saved", result.Saved, "updated", result.Updated, "skipped", result.Skipped, "cleared", result.Cleared)
	return nil
}

func logStatistics(posts []vkapi.Post) {
	var likes, reposts, comments int
	for _, p := range posts {
		likes += p.LikeCount()
		reposts += p.RepostCount()
		comments += p.CommentCount()
	}

	n := float64(len(posts))
	slog.Info("Statistics",
		"posts", len(posts),
		"avg_likes", fmt.Sprintf("%.1f", float64(likes)/n),
		"avg_reposts", fmt.Sprintf("%.1f", float64(reposts)/n),
		"avg_comments", fmt.Sprintf("%.1f", float64(comments)/n))
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).In(time.Local).Format(database.DateLayout)
}
