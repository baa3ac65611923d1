package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

type TaskType string

const (
	TaskTypeGetPosts           TaskType = "get_posts"
	TaskTypeCheckReaction      TaskType = "check_reaction"
	TaskTypeGroupsInfo         TaskType = "groups_info"
	TaskTypeGetAlbums          TaskType = "get_albums"
	TaskTypeFindAuthorComments TaskType = "find_author_comments"
	TaskTypePostComments       TaskType = "post_comments"
	TaskTypeFindDups           TaskType = "find_dups"
	TaskTypeFindCandidate      TaskType = "find_candidate"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetOwnerID() int64
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	OwnerID   int64
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetOwnerID() int64 {
	return t.OwnerID
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, ownerID int64) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	return Task{
		ID:      uniqueID,
		Type:    taskType,
		OwnerID: ownerID,
	}
}

// Run executes a task and logs its outcome. Tasks run one at a time in the
// foreground; there is no retry.
func Run(ctx context.Context, task TaskInterface) error {
	task.Start()
	slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID())

	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "owner_id", task.GetOwnerID(), "duration", task.GetDuration().String(), "error", err)
		return err
	}

	slog.Info("Task completed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration().String())
	return nil
}
