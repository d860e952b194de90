package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.Subscription) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	ConsumeImageCredit(ctx context.Context, userID int64) (bool, error)
	RefundImageCredit(ctx context.Context, userID int64) error
	ListActive(ctx context.Context, afterID int64, limit int) ([]*models.Subscription, error)
	AddCredits(ctx context.Context, id int64, credits int) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) (int64, error) {
	query := `
		INSERT INTO subscriptions (user_id, plan, status, image_credits_remaining)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			image_credits_remaining = EXCLUDED.image_credits_remaining,
			updated_at = now()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, sub.UserID, sub.Plan, sub.Status, sub.ImageCreditsRemaining).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	query := `SELECT id, user_id, plan, status, image_credits_remaining, created_at, updated_at FROM subscriptions WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Status, &sub.ImageCreditsRemaining, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sub, nil
}

// ConsumeImageCredit decrements one credit in a single guarded UPDATE.
// A false return means no active subscription with credits left; the
// balance is never read first and written second.
func (r *subscriptionRepository) ConsumeImageCredit(ctx context.Context, userID int64) (bool, error) {
	query := `
		UPDATE subscriptions
		SET image_credits_remaining = image_credits_remaining - 1, updated_at = now()
		WHERE user_id = $1 AND status = $2 AND image_credits_remaining > 0
	`
	res, err := r.db.ExecContext(ctx, query, userID, models.SubscriptionStatusActive)
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

func (r *subscriptionRepository) RefundImageCredit(ctx context.Context, userID int64) error {
	query := `
		UPDATE subscriptions
		SET image_credits_remaining = image_credits_remaining + 1, updated_at = now()
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *subscriptionRepository) ListActive(ctx context.Context, afterID int64, limit int) ([]*models.Subscription, error) {
	query := `
		SELECT id, user_id, plan, status, image_credits_remaining, created_at, updated_at
		FROM subscriptions
		WHERE status = $1 AND id > $2
		ORDER BY id
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, models.SubscriptionStatusActive, afterID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Status, &sub.ImageCreditsRemaining, &sub.CreatedAt, &sub.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (r *subscriptionRepository) AddCredits(ctx context.Context, id int64, credits int) error {
	query := `
		UPDATE subscriptions
		SET image_credits_remaining = image_credits_remaining + $1, updated_at = now()
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, credits, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}
