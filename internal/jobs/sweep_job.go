package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/repository"
)

// DispatchFunc hands a claimed post to the publisher. The production
// wiring enqueues an asynq task; tests substitute an in-process call.
type DispatchFunc func(postID int64) error

// SweepJob is the due-post poller. Each run queries a bounded batch of
// pending posts whose time has come, claims each one with the
// conditional pending->processing transition, and dispatches the ones
// it won. Overlapping runs are safe: a post can only be claimed once,
// and a lost claim is a silent skip.
type SweepJob struct {
	pr        repository.PostRepository
	dispatch  DispatchFunc
	batchSize int
}

func NewSweepJob(pr repository.PostRepository, dispatch DispatchFunc, batchSize int) *SweepJob {
	return &SweepJob{
		pr:        pr,
		dispatch:  dispatch,
		batchSize: batchSize,
	}
}

// Sweep runs one poll cycle and returns the number of posts claimed
// and dispatched.
func (j *SweepJob) Sweep(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := j.pr.ListDue(ctx, now, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("error listing due posts: %w", err)
	}

	claimed := 0
	for _, post := range due {
		ok, err := j.pr.ClaimPending(ctx, post.ID)
		if err != nil {
			slog.Info(fmt.Sprintf("error claiming post %d: %v", post.ID, err))
			continue
		}
		if !ok {
			// Another sweep got here first.
			continue
		}

		if err := j.dispatch(post.ID); err != nil {
			// The claim stands; the reclaim sweep will pick the post
			// up once it goes stale.
			slog.Error(fmt.Sprintf("error dispatching post %d: %v", post.ID, err))
			continue
		}
		claimed++
	}

	return claimed, nil
}

// Run adapts Sweep to the cron scheduler.
func (j *SweepJob) Run() {
	count, err := j.Sweep(context.Background())
	if err != nil {
		slog.Error(fmt.Sprintf("sweep failed: %v", err))
		return
	}
	if count > 0 {
		slog.Info(fmt.Sprintf("sweep claimed %d posts", count))
	}
}
