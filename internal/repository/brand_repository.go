package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type BrandRepository interface {
	Upsert(ctx context.Context, profile *models.BrandProfile) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error)
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Upsert(ctx context.Context, profile *models.BrandProfile) (int64, error) {
	query := `
		INSERT INTO brand_profiles (user_id, business_name, industry, target_audience, tone, primary_color, secondary_color, logo_ref, goal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
			industry = EXCLUDED.industry,
			target_audience = EXCLUDED.target_audience,
			tone = EXCLUDED.tone,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			logo_ref = EXCLUDED.logo_ref,
			goal = EXCLUDED.goal,
			updated_at = now()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		profile.UserID,
		profile.BusinessName,
		profile.Industry,
		profile.TargetAudience,
		profile.Tone,
		profile.PrimaryColor,
		profile.SecondaryColor,
		profile.LogoRef,
		profile.Goal,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *brandRepository) GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	query := `SELECT id, user_id, business_name, industry, target_audience, tone, primary_color, secondary_color, logo_ref, goal, created_at, updated_at FROM brand_profiles WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var profile models.BrandProfile
	err := row.Scan(&profile.ID, &profile.UserID, &profile.BusinessName, &profile.Industry,
		&profile.TargetAudience, &profile.Tone, &profile.PrimaryColor, &profile.SecondaryColor,
		&profile.LogoRef, &profile.Goal, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &profile, nil
}
