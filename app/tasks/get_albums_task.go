package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

type GetAlbumsOptions struct {
	Owner      int64   `long:"owner" required:"true" description:"Album owner ID (negative for communities)"`
	NeedSystem bool    `long:"need-system" description:"Include system albums"`
	NeedCovers bool    `long:"need-covers" description:"Include cover thumbnails"`
	MinSize    int     `long:"min-size" description:"Minimum number of photos in an album"`
	Delay      float64 `long:"delay" default:"0" description:"Delay between page requests in seconds"`
	Format     string  `long:"format" default:"table" description:"Output format: table, json, csv, markdown"`
	Output     string  `long:"output" description:"Write results to this file instead of the console"`
}

type GetAlbumsTask struct {
	Task
	opts   GetAlbumsOptions
	env    Env
	albums AlbumReader
}

func NewGetAlbumsTask(opts GetAlbumsOptions, env Env, albums AlbumReader) *GetAlbumsTask {
	return &GetAlbumsTask{
		Task:   NewTask(TaskTypeGetAlbums, opts.Owner),
		opts:   opts,
		env:    env,
		albums: albums,
	}
}

func (t *GetAlbumsTask) Execute(ctx context.Context) error {
	if t.opts.Owner == 0 {
		return ErrMissingOwner
	}
	if t.opts.MinSize < 0 {
		return fmt.Errorf("%w: --min-size must be non-negative", ErrInvalidOption)
	}
	format, err := export.ParseFormat(t.opts.Format)
	if err != nil {
		return err
	}
	if err := prepareOutput(t.opts.Output); err != nil {
		return err
	}

	albumOpts := vkapi.AlbumOptions{NeedSystem: t.opts.NeedSystem, NeedCovers: t.opts.NeedCovers}
	fetch := tolerant("photos.getAlbums", func(ctx context.Context, offset, count int) ([]vkapi.Album, error) {
		return t.albums.GetAlbums(ctx, t.opts.Owner, albumOpts, count, offset)
	})

	albums, stats, err := feed.Collect(ctx, t.env.paginator(seconds(t.opts.Delay)), fetch)
	if err != nil {
		return fmt.Errorf("failed to fetch albums: %w", err)
	}

	rows := make([]export.AlbumRow, 0, len(albums))
	for _, a := range albums {
		if t.opts.MinSize > 0 && a.Size < t.opts.MinSize {
			continue
		}
		rows = append(rows, export.AlbumRow{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Size:        a.Size,
			Created:     a.Created,
			Updated:     a.Updated,
			OwnerID:     a.OwnerID,
			ThumbID:     a.ThumbID,
			ThumbSrc:    a.ThumbSrc,
		})
	}

	slog.Info("Albums fetched", "owner_id", t.opts.Owner, "pages", stats.Pages, "total", len(albums), "kept", len(rows))
	if len(rows) == 0 {
		slog.Warn("No albums found", "owner_id", t.opts.Owner)
	}

	return emit(t.env, export.AlbumSchema(time.Local), rows, format, t.opts.Output)
}
