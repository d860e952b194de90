package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/repository"
)

const reclaimBatchSize = 100

// ReclaimJob sweeps posts stranded in processing. A publisher that
// crashes between claim and terminal write leaves its post stuck;
// after staleThreshold the post either goes back to pending (attempt
// counted) or, once its attempts are spent, is failed for good.
type ReclaimJob struct {
	pr             repository.PostRepository
	staleThreshold time.Duration
	maxAttempts    int
}

func NewReclaimJob(pr repository.PostRepository, staleThreshold time.Duration, maxAttempts int) *ReclaimJob {
	return &ReclaimJob{
		pr:             pr,
		staleThreshold: staleThreshold,
		maxAttempts:    maxAttempts,
	}
}

func (j *ReclaimJob) Reclaim(ctx context.Context) (int, error) {
	before := time.Now().Add(-j.staleThreshold)

	stale, err := j.pr.ListStaleProcessing(ctx, before, reclaimBatchSize)
	if err != nil {
		return 0, fmt.Errorf("error listing stale posts: %w", err)
	}

	reclaimed := 0
	for _, post := range stale {
		if post.Attempts >= j.maxAttempts {
			msg := fmt.Sprintf("publish attempt abandoned after %d tries", post.Attempts)
			ok, err := j.pr.FailStale(ctx, post.ID, before, msg)
			if err != nil {
				slog.Info(fmt.Sprintf("error failing stale post %d: %v", post.ID, err))
			} else if ok {
				slog.Warn(fmt.Sprintf("post %d failed after exhausting %d attempts", post.ID, post.Attempts))
			}
			continue
		}

		ok, err := j.pr.ReleaseStale(ctx, post.ID, before, j.maxAttempts)
		if err != nil {
			slog.Info(fmt.Sprintf("error releasing stale post %d: %v", post.ID, err))
			continue
		}
		if !ok {
			// The post moved on since it was listed; leave it be.
			continue
		}
		reclaimed++
	}

	return reclaimed, nil
}

func (j *ReclaimJob) Run() {
	count, err := j.Reclaim(context.Background())
	if err != nil {
		slog.Error(fmt.Sprintf("reclaim sweep failed: %v", err))
		return
	}
	if count > 0 {
		slog.Info(fmt.Sprintf("reclaim sweep released %d posts back to pending", count))
	}
}
