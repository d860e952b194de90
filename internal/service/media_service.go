package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error)
	AssetInfo(ctx context.Context, assetID, userID int64) (*models.MediaAsset, error)
}

type mediaService struct {
	ma repository.MediaAssetRepository
	r2 *R2Service
}

func NewMediaService(ma repository.MediaAssetRepository, r2 *R2Service) MediaService {
	return &mediaService{
		ma: ma,
		r2: r2,
	}
}

var allowedMediaTypes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "mp4": {}, "mov": {},
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error) {
	if file == nil {
		err := errors.New("no file provided")
		slog.Info(err.Error())
		return nil, err
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return nil, errors.New("unsupported file type")
	}
	if _, ok := allowedMediaTypes[fileType.Extension]; !ok {
		return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.r2.Upload(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	asset := &models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: fileType.MIME.Value,
		FileSize: int64(len(fileBytes)),
		FileURL:  s.r2.PublicURL(key),
	}

	assetID, err := s.ma.Create(ctx, nil, asset)
	if err != nil {
		return nil, fmt.Errorf("error saving media asset: %w", err)
	}
	asset.ID = assetID

	return asset, nil
}

func (s *mediaService) AssetInfo(ctx context.Context, assetID, userID int64) (*models.MediaAsset, error) {
	isValid, err := s.ma.CheckByUserID(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("media asset doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return s.ma.GetByID(ctx, assetID)
}
