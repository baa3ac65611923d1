package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lysyi3m/vk-comb/app/export"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

var (
	ErrMissingOwner  = errors.New("--owner is required")
	ErrInvalidOption = errors.New("invalid option")
)

// Env carries what every task shares: the output stream, the clock, the
// blocking sleep between requests and the link builder.
type Env struct {
	Out   io.Writer
	Sleep func(time.Duration)
	Now   func() time.Time
	URLs  vkapi.URLBuilder
}

func DefaultEnv(urls vkapi.URLBuilder) Env {
	return Env{Out: os.Stdout, Sleep: time.Sleep, Now: time.Now, URLs: urls}
}

func (e Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if e.Sleep == nil {
		time.Sleep(d)
		return
	}
	e.Sleep(d)
}

func (e Env) paginator(delay time.Duration) feed.Paginator {
	return feed.Paginator{PageSize: feed.DefaultPageSize, Delay: delay, Sleep: e.Sleep}
}

// seconds converts a fractional --delay value.
func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

// tolerant turns a malformed page into the end of pagination.
func tolerant[T any](method string, fetch feed.PageFunc[T]) feed.PageFunc[T] {
	return func(ctx context.Context, offset, count int) ([]T, error) {
		items, err := fetch(ctx, offset, count)
		if errors.Is(err, vkapi.ErrMalformedResponse) {
			slog.Warn("Unexpected response shape, stopping pagination", "method", method, "offset", offset, "error", err)
			return nil, nil
		}
		return items, err
	}
}

func wallPosts(wall WallReader, ownerID int64) feed.PageFunc[vkapi.Post] {
	return tolerant("wall.get", func(ctx context.Context, offset, count int) ([]vkapi.Post, error) {
		return wall.GetPosts(ctx, ownerID, count, offset)
	})
}

func wallComments(wall WallReader, ownerID, postID int64) feed.PageFunc[vkapi.Comment] {
	return tolerant("wall.getComments", func(ctx context.Context, offset, count int) ([]vkapi.Comment, error) {
		return wall.GetComments(ctx, ownerID, postID, count, offset)
	})
}

// prepareOutput reports an unusable --output destination as an option
// error, before anything is fetched.
func prepareOutput(output string) error {
	if err := export.PrepareOutput(output); err != nil {
		return fmt.Errorf("%w: --output: %w", ErrInvalidOption, err)
	}
	return nil
}

// emit prints records to the console, or writes them to output when set.
// Writing a file still shows the console table for table and Markdown runs.
func emit[R any](env Env, schema export.Schema[R], records []R, format export.Format, output string) error {
	exporter := export.New(schema, env.out())

	if output == "" {
		text, err := exporter.Render(records, format)
		if err != nil {
			return err
		}
		if text != "" {
			fmt.Fprint(env.out(), text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(env.out())
			}
		}
		return nil
	}

	fileFormat := export.ResolveFileFormat(output, format)
	text, err := exporter.Render(records, fileFormat)
	if err != nil {
		return err
	}

	written, err := export.WriteFile(output, text)
	if err != nil {
		return err
	}
	slog.Info("Results saved", "path", output, "format", string(fileFormat), "bytes", written)

	if format == export.FormatTable || fileFormat == export.FormatMarkdown {
		exporter.Table(records)
	}

	return nil
}
