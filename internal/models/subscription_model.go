package models

import "time"

type Subscription struct {
	ID                    int64     `db:"id" json:"id"`
	UserID                int64     `db:"user_id" json:"user_id"`
	Plan                  string    `db:"plan" json:"plan"`
	Status                string    `db:"status" json:"status"`
	ImageCreditsRemaining int       `db:"image_credits_remaining" json:"image_credits_remaining"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"

	PlanFree = "free"
	PlanPro  = "pro"
)
