package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
)

type BrandService interface {
	SaveProfile(ctx context.Context, userID int64, profile *models.BrandProfile) (*models.BrandProfile, error)
	GetProfile(ctx context.Context, userID int64) (*models.BrandProfile, error)
}

type brandService struct {
	br repository.BrandRepository
}

func NewBrandService(br repository.BrandRepository) BrandService {
	return &brandService{br: br}
}

func (s *brandService) SaveProfile(ctx context.Context, userID int64, profile *models.BrandProfile) (*models.BrandProfile, error) {
	if profile.BusinessName == "" {
		err := errors.New("brand name is required")
		slog.Info(err.Error())
		return nil, err
	}

	if profile.PrimaryColor == "" {
		profile.PrimaryColor = "#4f46e5"
	}
	if profile.SecondaryColor == "" {
		profile.SecondaryColor = "#818cf8"
	}
	profile.UserID = userID

	if _, err := s.br.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return s.br.GetByUserID(ctx, userID)
}

func (s *brandService) GetProfile(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	profile, err := s.br.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		err = errors.New("brand profile doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}
	return profile, nil
}
