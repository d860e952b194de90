package transfer

// PostCreation is the schedule request body. ScheduledAt is RFC3339.
// MediaRef and AccountID are optional; a zero AccountID means the
// account is resolved by (user, platform) at dispatch time.
type PostCreation struct {
	Content     string `json:"content"`
	MediaRef    int64  `json:"media_ref"`
	Platform    string `json:"platform"`
	ScheduledAt string `json:"scheduled_at"`
	AccountID   int64  `json:"account_id"`
}

// PublishNow carries the same payload without a schedule; the post is
// dispatched immediately.
type PublishNow struct {
	Content   string `json:"content"`
	MediaRef  int64  `json:"media_ref"`
	Platform  string `json:"platform"`
	AccountID int64  `json:"account_id"`
}

type SweepResult struct {
	Count int `json:"count"`
}
