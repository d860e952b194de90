package service_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

// fakePostRepo is an in-memory job store with the same conditional
// transition semantics as the SQL implementation: every status change
// checks the expected current status under the lock and reports
// whether it won.
type fakePostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.ScheduledPost
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.ScheduledPost)}
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *post
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = time.Now()
	r.posts[clone.ID] = &clone
	return clone.ID, nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *post
	return &clone, nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduledPost
	for _, post := range r.posts {
		if post.UserID == userID {
			clone := *post
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	return ok && post.UserID == userID, nil
}

func (r *fakePostRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduledPost
	for _, post := range r.posts {
		if post.Status == models.PostStatusPending && !post.ScheduledAt.After(now) {
			clone := *post
			out = append(out, &clone)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduledPost
	for _, post := range r.posts {
		if post.Status == models.PostStatusProcessing && post.UpdatedAt.Before(before) {
			clone := *post
			out = append(out, &clone)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) ClaimPending(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusPending {
		return false, nil
	}
	post.Status = models.PostStatusProcessing
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepo) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusProcessing {
		return false, nil
	}
	post.Status = models.PostStatusPublished
	post.PublishedAt = &publishedAt
	post.UpdatedAt = publishedAt
	return true, nil
}

func (r *fakePostRepo) MarkFailed(ctx context.Context, id int64, errorLog string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusProcessing {
		return false, nil
	}
	post.Status = models.PostStatusFailed
	post.ErrorLog = errorLog
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepo) ReleaseStale(ctx context.Context, id int64, before time.Time, maxAttempts int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusProcessing ||
		!post.UpdatedAt.Before(before) || post.Attempts >= maxAttempts {
		return false, nil
	}
	post.Status = models.PostStatusPending
	post.Attempts++
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepo) FailStale(ctx context.Context, id int64, before time.Time, errorLog string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusProcessing || !post.UpdatedAt.Before(before) {
		return false, nil
	}
	post.Status = models.PostStatusFailed
	post.ErrorLog = errorLog
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

// setStatus is a test backdoor for simulating concurrent writers.
func (r *fakePostRepo) setStatus(id int64, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[id]; ok {
		post.Status = status
		post.UpdatedAt = time.Now()
	}
}

type fakeAccountRepo struct {
	accounts map[int64]*models.ConnectedAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int64]*models.ConnectedAccount)}
}

func (r *fakeAccountRepo) Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error) {
	if account.ID == 0 {
		account.ID = int64(len(r.accounts) + 1)
	}
	r.accounts[account.ID] = account
	return account.ID, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.ConnectedAccount, error) {
	for _, account := range r.accounts {
		if account.UserID == userID && account.Platform == platform {
			return account, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	var out []*models.ConnectedAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	account, ok := r.accounts[accountID]
	return ok && account.UserID == userID, nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error {
	delete(r.accounts, id)
	return nil
}

type fakeMediaRepo struct {
	assets map[int64]*models.MediaAsset
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{assets: make(map[int64]*models.MediaAsset)}
}

func (r *fakeMediaRepo) Create(ctx context.Context, tx *sql.Tx, asset *models.MediaAsset) (int64, error) {
	if asset.ID == 0 {
		asset.ID = int64(len(r.assets) + 1)
	}
	r.assets[asset.ID] = asset
	return asset.ID, nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return r.assets[id], nil
}

func (r *fakeMediaRepo) CheckByUserID(ctx context.Context, assetID, userID int64) (bool, error) {
	asset, ok := r.assets[assetID]
	return ok && asset.UserID == userID, nil
}
