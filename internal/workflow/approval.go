package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

type TaskState string

const (
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// ApprovalTask tracks one simulated platform upload started by Approve.
type ApprovalTask struct {
	ID         string    `json:"id"`
	VideoID    string    `json:"video_id"`
	Started_At time.Time `json:"started_at"`

	once  sync.Once
	done  chan struct{}
	video models.Video
	err   error
}

func newApprovalTask(videoID string, now time.Time) *ApprovalTask {
	return &ApprovalTask{
		ID:         uuid.NewString(),
		VideoID:    videoID,
		Started_At: now,
		done:       make(chan struct{}),
	}
}

func (t *ApprovalTask) finish(video models.Video, err error) {
	t.once.Do(func() {
		t.video = video
		t.err = err
		close(t.done)
	})
}

func (t *ApprovalTask) Done() <-chan struct{} {
	return t.done
}

func (t *ApprovalTask) State() TaskState {
	select {
	case <-t.done:
		if t.err != nil {
			return TaskFailed
		}
		return TaskSucceeded
	default:
		return TaskRunning
	}
}

// Wait blocks until the task completes or ctx ends, returning the record as
// it stood after completion.
func (t *ApprovalTask) Wait(ctx context.Context) (models.Video, error) {
	select {
	case <-ctx.Done():
		return models.Video{}, ctx.Err()
	case <-t.done:
		return t.video, t.err
	}
}
