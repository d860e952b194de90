package models

import "time"

type ScheduledPost struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Platform    string     `db:"platform" json:"platform"`
	Content     string     `db:"content" json:"content"`
	MediaRef    int64      `db:"media_ref" json:"media_ref,omitempty"`
	AccountID   int64      `db:"account_id" json:"account_id,omitempty"`
	ScheduledAt time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status      string     `db:"status" json:"status"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	ErrorLog    string     `db:"error_log" json:"error_log,omitempty"`
	Attempts    int        `db:"attempts" json:"attempts"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Post lifecycle. Transitions only ever move forward:
// pending -> processing -> published|failed.
const (
	PostStatusPending    = "pending"
	PostStatusProcessing = "processing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)

const (
	PlatformInstagram = "instagram"
	PlatformLinkedin  = "linkedin"
	PlatformFacebook  = "facebook"
	PlatformX         = "x"
)

func IsKnownPlatform(platform string) bool {
	switch platform {
	case PlatformInstagram, PlatformLinkedin, PlatformFacebook, PlatformX:
		return true
	}
	return false
}
