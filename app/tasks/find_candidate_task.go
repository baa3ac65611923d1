package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

var candidateSeparator = strings.Repeat("=", 100)

type FindCandidateOptions struct {
	Owner     int64   `long:"owner" required:"true" description:"Wall owner ID (negative for communities)"`
	NoReposts bool    `long:"noreposts" description:"Skip posts that were reposted"`
	Delay     float64 `long:"delay" default:"1" description:"Delay between page requests in seconds"`
	Pause     float64 `long:"pause" default:"5" description:"Pause after each listed post in seconds"`
}

type FindCandidateTask struct {
	Task
	opts FindCandidateOptions
	env  Env
	wall WallReader
}

func NewFindCandidateTask(opts FindCandidateOptions, env Env, wall WallReader) *FindCandidateTask {
	return &FindCandidateTask{
		Task: NewTask(TaskTypeFindCandidate, opts.Owner),
		opts: opts,
		env:  env,
		wall: wall,
	}
}

// Execute lists every post with text, oldest first.
func (t *FindCandidateTask) Execute(ctx context.Context) error {
	if t.opts.Owner == 0 {
		return ErrMissingOwner
	}

	var all []vkapi.Post
	_, err := feed.Walk(ctx, t.env.paginator(seconds(t.opts.Delay)), wallPosts(t.wall, t.opts.Owner), func(posts []vkapi.Post) error {
		all = append(all, posts...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan wall: %w", err)
	}

	slices.Reverse(all)

	pause := seconds(t.opts.Pause)
	listed := 0
	for _, p := range all {
		if p.Body() == "" || (t.opts.NoReposts && p.RepostCount() > 0) {
			continue
		}
		if listed > 0 {
			t.env.sleep(pause)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		listed++

		out := t.env.out()
		fmt.Fprintln(out, p.Body())
		fmt.Fprintln(out, t.env.URLs.WallPost(t.opts.Owner, p.ID))
		fmt.Fprintf(out, "LIKES %d REPOSTS %d\n", p.LikeCount(), p.RepostCount())
		fmt.Fprintln(out, candidateSeparator)
	}

	slog.Info("Candidate scan finished", "owner_id", t.opts.Owner, "posts", len(all), "listed", listed)
	return nil
}
