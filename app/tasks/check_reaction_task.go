package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

const checkExcerptWidth = 40

var ErrEmptyResourceList = errors.New("resource list is empty")

type CheckReactionOptions struct {
	Cached bool    `long:"cached" description:"Reuse the snapshot from the previous run when present"`
	Delay  float64 `long:"delay" default:"0.3" description:"Delay between groups in seconds"`
	Format string  `long:"format" default:"table" description:"Output format: table, json, csv, markdown"`
	Output string  `long:"output" description:"Write results to this file instead of the console"`
}

type CheckReactionTask struct {
	Task
	opts   CheckReactionOptions
	env    Env
	names  func() ([]string, error)
	groups GroupReader
	wall   WallReader
	cache  database.CheckCacheRepository
}

func NewCheckReactionTask(opts CheckReactionOptions, env Env, names func() ([]string, error), groups GroupReader, wall WallReader, cache database.CheckCacheRepository) *CheckReactionTask {
	return &CheckReactionTask{
		Task:   NewTask(TaskTypeCheckReaction, 0),
		opts:   opts,
		env:    env,
		names:  names,
		groups: groups,
		wall:   wall,
		cache:  cache,
	}
}

func (t *CheckReactionTask) Execute(ctx context.Context) error {
	format, err := export.ParseFormat(t.opts.Format)
	if err != nil {
		return err
	}
	if err := prepareOutput(t.opts.Output); err != nil {
		return err
	}

	useCache := false
	if t.opts.Cached {
		useCache, err = t.cache.HasEntries()
		if err != nil {
			slog.Warn("Failed to inspect check cache, refreshing", "error", err)
			useCache = false
		}
	}

	var rows []export.CheckRow
	if useCache {
		rows, err = t.fromCache()
	} else {
		rows, err = t.refresh(ctx)
	}
	if err != nil {
		return err
	}

	return emit(t.env, export.CheckSchema, rows, format, t.opts.Output)
}

func (t *CheckReactionTask) refresh(ctx context.Context) ([]export.CheckRow, error) {
	names, err := t.names()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmptyResourceList
	}

	if err := t.cache.Clear(); err != nil {
		slog.Warn("Failed to clear check cache", "error", err)
	}

	delay := seconds(t.opts.Delay)
	rows := make([]export.CheckRow, 0, len(names))
	for i, name := range names {
		if i > 0 {
			t.env.sleep(delay)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := t.check(ctx, name)
		if err != nil {
			slog.Warn("Skipping group", "name", name, "error", err)
			continue
		}
		if row == nil {
			slog.Debug("Group wall is empty", "name", name)
			continue
		}

		if err := t.cache.Insert(database.CheckEntry{
			GroupName: row.GroupName,
			GroupID:   row.GroupID,
			PostText:  row.PostText,
			Likes:     row.Likes,
			Reposts:   row.Reposts,
			CachedAt:  t.env.now(),
		}); err != nil {
			slog.Warn("Failed to cache check result", "name", name, "error", err)
		}

		rows = append(rows, *row)
	}

	return rows, nil
}

// check returns the latest post with text of one community, or its last
// fetched post when none has text. A nil row means the wall is empty.
func (t *CheckReactionTask) check(ctx context.Context, name string) (*export.CheckRow, error) {
	resolved, group, err := resolveGroup(ctx, t.groups, name)
	if err != nil {
		return nil, err
	}

	posts, err := t.wall.GetPosts(ctx, -resolved.ObjectID, feed.DefaultPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	pick := posts[len(posts)-1]
	for _, p := range posts {
		if p.Body() != "" {
			pick = p
			break
		}
	}

	return &export.CheckRow{
		PostText:  feed.Truncate(pick.Body(), checkExcerptWidth),
		GroupName: group.Name,
		GroupID:   resolved.ObjectID,
		Likes:     pick.LikeCount(),
		Reposts:   pick.RepostCount(),
	}, nil
}

func (t *CheckReactionTask) fromCache() ([]export.CheckRow, error) {
	entries, err := t.cache.List()
	if err != nil {
		return nil, err
	}
	slog.Info("Using cached check results", "entries", len(entries))

	rows := make([]export.CheckRow, len(entries))
	for i, e := range entries {
		rows[i] = export.CheckRow{
			PostText:  e.PostText,
			GroupName: e.GroupName,
			GroupID:   e.GroupID,
			Likes:     e.Likes,
			Reposts:   e.Reposts,
		}
	}
	return rows, nil
}

// resolveGroup maps a screen name to its numeric object and group record.
func resolveGroup(ctx context.Context, groups GroupReader, name string) (*vkapi.ResolvedObject, *vkapi.Group, error) {
	resolved, err := groups.ResolveScreenName(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	if resolved == nil {
		return nil, nil, fmt.Errorf("could not resolve %s", name)
	}

	group, err := groups.GetByID(ctx, resolved.ObjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get group %d: %w", resolved.ObjectID, err)
	}
	if group == nil {
		return nil, nil, fmt.Errorf("no group info for %s (ID: %d)", name, resolved.ObjectID)
	}

	return resolved, group, nil
}
