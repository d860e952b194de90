package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

// PostRepository is the job store for scheduled posts. Every status
// transition is a single conditional UPDATE guarded by the expected
// current status; the boolean result reports whether the guard held.
// There is no unconditional status write.
type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error)
	ListStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error)
	ClaimPending(ctx context.Context, id int64) (bool, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64, errorLog string) (bool, error)
	ReleaseStale(ctx context.Context, id int64, before time.Time, maxAttempts int) (bool, error)
	FailStale(ctx context.Context, id int64, before time.Time, errorLog string) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, platform, content, media_ref, account_id, scheduled_at, status, published_at, error_log, attempts, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	err := row.Scan(&post.ID, &post.UserID, &post.Platform, &post.Content,
		&post.MediaRef, &post.AccountID, &post.ScheduledAt, &post.Status,
		&post.PublishedAt, &post.ErrorLog, &post.Attempts, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, platform, content, media_ref, account_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.UserID, post.Platform, post.Content, post.MediaRef, post.AccountID, post.ScheduledAt, post.Status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.UserID, post.Platform, post.Content, post.MediaRef, post.AccountID, post.ScheduledAt, post.Status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE user_id = $1 ORDER BY scheduled_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM scheduled_posts
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPending, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM scheduled_posts
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusProcessing, before, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// ClaimPending grants exclusive dispatch rights. The WHERE clause on
// the current status makes the claim a compare-and-swap; a concurrent
// sweep that already claimed the post leaves zero rows to update.
func (r *postRepository) ClaimPending(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, models.PostStatusProcessing, time.Now(), id, models.PostStatusPending)
}

func (r *postRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, published_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, models.PostStatusPublished, publishedAt, id, models.PostStatusProcessing)
}

func (r *postRepository) MarkFailed(ctx context.Context, id int64, errorLog string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, error_log = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	return r.transition(ctx, query, models.PostStatusFailed, errorLog, time.Now(), id, models.PostStatusProcessing)
}

// ReleaseStale resets a post stranded in processing back to pending,
// counting the attempt. The updated_at guard keeps it from touching a
// post an active publisher claimed after the reclaim sweep listed it.
func (r *postRepository) ReleaseStale(ctx context.Context, id int64, before time.Time, maxAttempts int) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, attempts = attempts + 1, updated_at = $2
		WHERE id = $3 AND status = $4 AND updated_at < $5 AND attempts < $6
	`
	return r.transition(ctx, query, models.PostStatusPending, time.Now(), id, models.PostStatusProcessing, before, maxAttempts)
}

// FailStale terminally fails a post stranded in processing once its
// retry budget is spent. The staleness guard keeps it off posts an
// active publisher is still working on.
func (r *postRepository) FailStale(ctx context.Context, id int64, before time.Time, errorLog string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, error_log = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND updated_at < $6
	`
	return r.transition(ctx, query, models.PostStatusFailed, errorLog, time.Now(), id, models.PostStatusProcessing, before)
}

func (r *postRepository) transition(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
