package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/vk-comb/app/api"
	"github.com/lysyi3m/vk-comb/app/cfg"
	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/resource"
	"github.com/lysyi3m/vk-comb/app/tasks"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

var errMissingToken = errors.New("VK token is required (--token or VK_TOKEN)")

func main() {
	a := &app{}
	parser := newParser(a)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// app holds what commands share once global options are parsed. The
// database and API client are created on first use.
type app struct {
	opts   cfg.Options
	parser *flags.Parser
	cfg    *cfg.Cfg
	ctx    context.Context
	client *vkapi.Client
	db     *database.DB
}

func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(&a.opts, flags.Default)
	a.parser = parser

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"posts", "Fetch wall posts within a date range", "Fetch wall posts within a date range, filter them and export or store them.", &postsCommand{app: a}},
		{"check", "Latest post of every listed group", "Show the latest post with text of every group in the resource list.", &checkCommand{app: a}},
		{"groups", "Resolve listed groups", "Resolve every group in the resource list to its ID, name and type.", &groupsCommand{app: a}},
		{"albums", "List photo albums", "List the photo albums of a user or community.", &albumsCommand{app: a}},
		{"comments", "Find comments by an author", "Scan every post of a wall for comments left by one author.", &commentsCommand{app: a}},
		{"post-comments", "Show comments of a post", "Print the details of the first page of comments of a post.", &postCommentsCommand{app: a}},
		{"dups", "Find posts matching a pattern", "Scan a wall for posts whose text matches a case-insensitive pattern.", &dupsCommand{app: a}},
		{"candidate", "List posts oldest first", "List every post with text from the oldest, pausing between entries.", &candidateCommand{app: a}},
		{"serve", "Serve stored posts over HTTP", "Serve stored posts as JSON, CSV, Markdown and RSS.", &serveCommand{app: a}},
		{"migrate", "Apply database migrations", "Apply pending database migrations and print the schema version.", &migrateCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic(fmt.Sprintf("failed to register command %s: %v", c.name, err))
		}
	}

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}
		if err := a.setup(); err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		a.ctx = ctx

		return command.Execute(args)
	}

	return parser
}

func (a *app) setup() error {
	c, err := cfg.Build(a.parser, &a.opts)
	if err != nil {
		return err
	}
	a.cfg = c

	cfg.SetupLogging(os.Stderr, c.Debug)
	slog.Debug("Configuration loaded", "version", c.Version, "api_host", c.APIHost, "api_version", c.APIVersion, "db_path", c.DBPath)

	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
		a.db = nil
	}
}

func (a *app) env() tasks.Env {
	return tasks.DefaultEnv(vkapi.NewURLBuilder(a.cfg.AccountBaseURL))
}

func (a *app) api() (*vkapi.Client, error) {
	if a.cfg.Token == "" {
		return nil, errMissingToken
	}
	if a.client == nil {
		a.client = vkapi.NewClient(vkapi.Options{
			Host:      a.cfg.APIHost,
			Token:     a.cfg.Token,
			Version:   a.cfg.APIVersion,
			VerifySSL: a.cfg.VerifySSL,
			Timeout:   a.cfg.HTTPTimeout,
			UserAgent: a.cfg.UserAgent,
		})
	}
	return a.client, nil
}

func (a *app) database() (*database.DB, error) {
	if a.db == nil {
		db, err := database.NewConnection(a.cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.db = db
	}
	return a.db, nil
}

func (a *app) postStore() (database.PostRepository, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return database.NewPostStore(db), nil
}

func (a *app) resourceNames() ([]string, error) {
	return resource.Load(a.cfg.ResourcesFile)
}

type postsCommand struct {
	tasks.GetPostsOptions
	app *app
}

func (c *postsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewGetPostsTask(c.GetPostsOptions, c.app.env(), vkapi.NewWallService(client), c.app.postStore)
	return tasks.Run(c.app.ctx, task)
}

type checkCommand struct {
	tasks.CheckReactionOptions
	app *app
}

func (c *checkCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	db, err := c.app.database()
	if err != nil {
		return err
	}
	task := tasks.NewCheckReactionTask(c.CheckReactionOptions, c.app.env(), c.app.resourceNames,
		vkapi.NewGroupService(client), vkapi.NewWallService(client), database.NewCheckCacheStore(db))
	return tasks.Run(c.app.ctx, task)
}

type groupsCommand struct {
	tasks.GroupsInfoOptions
	app *app
}

func (c *groupsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewGroupsInfoTask(c.GroupsInfoOptions, c.app.env(), c.app.resourceNames, vkapi.NewGroupService(client))
	return tasks.Run(c.app.ctx, task)
}

type albumsCommand struct {
	tasks.GetAlbumsOptions
	app *app
}

func (c *albumsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewGetAlbumsTask(c.GetAlbumsOptions, c.app.env(), vkapi.NewPhotoService(client))
	return tasks.Run(c.app.ctx, task)
}

type commentsCommand struct {
	tasks.FindAuthorCommentsOptions
	app *app
}

func (c *commentsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewFindAuthorCommentsTask(c.FindAuthorCommentsOptions, c.app.env(), vkapi.NewWallService(client))
	return tasks.Run(c.app.ctx, task)
}

type postCommentsCommand struct {
	tasks.PostCommentsOptions
	app *app
}

func (c *postCommentsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewPostCommentsTask(c.PostCommentsOptions, c.app.env(), vkapi.NewWallService(client))
	return tasks.Run(c.app.ctx, task)
}

type dupsCommand struct {
	tasks.FindDupsOptions
	app *app
}

func (c *dupsCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewFindDupsTask(c.FindDupsOptions, c.app.env(), vkapi.NewWallService(client))
	return tasks.Run(c.app.ctx, task)
}

type candidateCommand struct {
	tasks.FindCandidateOptions
	app *app
}

func (c *candidateCommand) Execute([]string) error {
	client, err := c.app.api()
	if err != nil {
		return err
	}
	task := tasks.NewFindCandidateTask(c.FindCandidateOptions, c.app.env(), vkapi.NewWallService(client))
	return tasks.Run(c.app.ctx, task)
}

type serveCommand struct {
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseURL string `long:"base-url" env:"BASE_URL" description:"Public URL of the server, used in feed self links"`
	app     *app
}

func (c *serveCommand) Execute([]string) error {
	db, err := c.app.database()
	if err != nil {
		return err
	}

	handler := api.NewHandler(database.NewPostStore(db), vkapi.NewURLBuilder(c.app.cfg.AccountBaseURL), c.BaseURL, c.app.cfg.Version)
	slog.Info("Serving stored posts", "port", c.Port, "db_path", c.app.cfg.DBPath)

	return api.Serve(c.app.ctx, ":"+c.Port, api.NewServer(handler))
}

type migrateCommand struct {
	app *app
}

func (c *migrateCommand) Execute([]string) error {
	db, err := c.app.database()
	if err != nil {
		return err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}

	fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
