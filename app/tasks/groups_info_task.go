package tasks

import (
	"cmp"
	"context"
	"errors"
	"log/slog"

	"github.com/lysyi3m/vk-comb/app/export"
)

var ErrNoGroupsResolved = errors.New("no group could be resolved")

type GroupsInfoOptions struct {
	Delay  float64 `long:"delay" default:"0.5" description:"Delay between groups in seconds"`
	Format string  `long:"format" default:"table" description:"Output format: table, json, csv, markdown"`
	Output string  `long:"output" description:"Write results to this file instead of the console"`
}

type GroupsInfoTask struct {
	Task
	opts   GroupsInfoOptions
	env    Env
	names  func() ([]string, error)
	groups GroupReader
}

func NewGroupsInfoTask(opts GroupsInfoOptions, env Env, names func() ([]string, error), groups GroupReader) *GroupsInfoTask {
	return &GroupsInfoTask{
		Task:   NewTask(TaskTypeGroupsInfo, 0),
		opts:   opts,
		env:    env,
		names:  names,
		groups: groups,
	}
}

func (t *GroupsInfoTask) Execute(ctx context.Context) error {
	format, err := export.ParseFormat(t.opts.Format)
	if err != nil {
		return err
	}
	if err := prepareOutput(t.opts.Output); err != nil {
		return err
	}

	names, err := t.names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return ErrEmptyResourceList
	}

	delay := seconds(t.opts.Delay)
	var rows []export.GroupRow
	for i, name := range names {
		if i > 0 {
			t.env.sleep(delay)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		resolved, group, err := resolveGroup(ctx, t.groups, name)
		if err != nil {
			slog.Warn("Skipping group", "name", name, "error", err)
			continue
		}

		rows = append(rows, export.GroupRow{
			Name: cmp.Or(group.Name, "N/A"),
			ID:   resolved.ObjectID,
			Type: cmp.Or(resolved.Type, group.Type, "N/A"),
		})
	}

	if len(rows) == 0 {
		return ErrNoGroupsResolved
	}

	return emit(t.env, export.GroupSchema, rows, format, t.opts.Output)
}
