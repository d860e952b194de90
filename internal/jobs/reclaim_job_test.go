package job_test

import (
	"context"
	"testing"
	"time"

	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclaimReleasesStalePosts(t *testing.T) {
	repo := newMemPostRepo()

	staleID := repo.add(&models.ScheduledPost{
		Status:    models.PostStatusProcessing,
		UpdatedAt: time.Now().Add(-time.Hour),
	})
	freshID := repo.add(&models.ScheduledPost{
		Status:    models.PostStatusProcessing,
		UpdatedAt: time.Now(),
	})

	reclaim := job.NewReclaimJob(repo, 10*time.Minute, 3)

	count, err := reclaim.Reclaim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stale := repo.get(staleID)
	assert.Equal(t, models.PostStatusPending, stale.Status)
	assert.Equal(t, 1, stale.Attempts)

	// A recent claim is an active publisher, not a crash.
	assert.Equal(t, models.PostStatusProcessing, repo.get(freshID).Status)
}

func TestReclaimFailsPostAfterMaxAttempts(t *testing.T) {
	repo := newMemPostRepo()

	id := repo.add(&models.ScheduledPost{
		Status:    models.PostStatusProcessing,
		Attempts:  3,
		UpdatedAt: time.Now().Add(-time.Hour),
	})

	reclaim := job.NewReclaimJob(repo, 10*time.Minute, 3)

	count, err := reclaim.Reclaim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	post := repo.get(id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "abandoned after 3 tries")
}

func TestReclaimLeavesTerminalPostsAlone(t *testing.T) {
	repo := newMemPostRepo()

	publishedAt := time.Now().Add(-2 * time.Hour)
	publishedID := repo.add(&models.ScheduledPost{
		Status:      models.PostStatusPublished,
		PublishedAt: &publishedAt,
		UpdatedAt:   publishedAt,
	})
	failedID := repo.add(&models.ScheduledPost{
		Status:    models.PostStatusFailed,
		ErrorLog:  "instagram rejected post",
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	})

	reclaim := job.NewReclaimJob(repo, 10*time.Minute, 3)

	count, err := reclaim.Reclaim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, models.PostStatusPublished, repo.get(publishedID).Status)
	assert.Equal(t, models.PostStatusFailed, repo.get(failedID).Status)
}
