package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, error)
	List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	pr repository.PostRepository
	ca repository.ConnectedAccountRepository
	ma repository.MediaAssetRepository
}

func NewPostService(
	pr repository.PostRepository,
	ca repository.ConnectedAccountRepository,
	ma repository.MediaAssetRepository) PostService {
	return &postService{
		pr: pr,
		ca: ca,
		ma: ma,
	}
}

// CreatePost validates the request and stores the post as pending.
// Dispatch is entirely the sweep's business; nothing is enqueued here.
func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, err
	}
	if pc.Content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}
	if !models.IsKnownPlatform(pc.Platform) {
		err := fmt.Errorf("unknown platform %q", pc.Platform)
		slog.Info(err.Error())
		return nil, err
	}

	scheduledAt, err := time.Parse(time.RFC3339, pc.ScheduledAt)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return nil, err
	}

	if pc.AccountID != 0 {
		exists, err := s.ca.CheckByUserID(ctx, pc.AccountID, userID)
		if err != nil {
			return nil, fmt.Errorf("error checking connected account %d: %w", pc.AccountID, err)
		}
		if !exists {
			return nil, fmt.Errorf("connected account %d does not exist", pc.AccountID)
		}
	}

	if pc.MediaRef != 0 {
		exists, err := s.ma.CheckByUserID(ctx, pc.MediaRef, userID)
		if err != nil {
			return nil, fmt.Errorf("error checking media asset %d: %w", pc.MediaRef, err)
		}
		if !exists {
			return nil, fmt.Errorf("media asset %d does not exist", pc.MediaRef)
		}
	}

	post := &models.ScheduledPost{
		UserID:      userID,
		Platform:    pc.Platform,
		Content:     pc.Content,
		MediaRef:    pc.MediaRef,
		AccountID:   pc.AccountID,
		ScheduledAt: scheduledAt,
		Status:      models.PostStatusPending,
	}

	id, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	return s.pr.GetByID(ctx, id)
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error) {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}

	return post, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
