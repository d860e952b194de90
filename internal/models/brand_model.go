package models

import "time"

type BrandProfile struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	BusinessName   string    `db:"business_name" json:"business_name"`
	Industry       string    `db:"industry" json:"industry"`
	TargetAudience string    `db:"target_audience" json:"target_audience"`
	Tone           string    `db:"tone" json:"tone"`
	PrimaryColor   string    `db:"primary_color" json:"primary_color"`
	SecondaryColor string    `db:"secondary_color" json:"secondary_color"`
	LogoRef        int64     `db:"logo_ref" json:"logo_ref,omitempty"`
	Goal           string    `db:"goal" json:"goal"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
