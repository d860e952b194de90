package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/platform"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

const (
	errorLogLimit  = 1000
	publishTimeout = 60 * time.Second
)

var (
	ErrAccountNotFound       = errors.New("no connected account found for platform")
	ErrCredentialsIncomplete = errors.New("connected account is missing required credentials")
)

// PublisherService dispatches one claimed post: resolve credentials,
// resolve media, invoke the platform adapter, write the terminal
// state. The post must already be in processing when Publish runs;
// both terminal writes are conditional on that, so a concurrent
// writer can never be overwritten.
type PublisherService interface {
	Publish(ctx context.Context, postID int64) error
	PublishNow(ctx context.Context, userID int64, req *transfer.PublishNow) (*models.ScheduledPost, error)
}

type publisherService struct {
	cfg      config.Config
	pr       repository.PostRepository
	ca       repository.ConnectedAccountRepository
	ma       repository.MediaAssetRepository
	registry platform.Registry
}

func NewPublisherService(
	cfg config.Config,
	pr repository.PostRepository,
	ca repository.ConnectedAccountRepository,
	ma repository.MediaAssetRepository,
	registry platform.Registry) PublisherService {
	return &publisherService{
		cfg:      cfg,
		pr:       pr,
		ca:       ca,
		ma:       ma,
		registry: registry,
	}
}

func (s *publisherService) Publish(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("error loading post %d: %w", postID, err)
	}
	if post == nil {
		slog.Info(fmt.Sprintf("post %d not found, skipping publish", postID))
		return nil
	}
	if post.Status != models.PostStatusProcessing {
		slog.Info(fmt.Sprintf("post %d is not claimed for processing (status %s), skipping publish", postID, post.Status))
		return nil
	}

	s.dispatch(ctx, post)
	return nil
}

func (s *publisherService) PublishNow(ctx context.Context, userID int64, req *transfer.PublishNow) (*models.ScheduledPost, error) {
	if req.Content == "" {
		return nil, errors.New("content cannot be empty")
	}
	if !models.IsKnownPlatform(req.Platform) {
		return nil, fmt.Errorf("unknown platform %q", req.Platform)
	}

	// A direct publish skips the pending state entirely: the post is
	// born claimed, then dispatched inline.
	post := &models.ScheduledPost{
		UserID:      userID,
		Platform:    req.Platform,
		Content:     req.Content,
		MediaRef:    req.MediaRef,
		AccountID:   req.AccountID,
		ScheduledAt: time.Now(),
		Status:      models.PostStatusProcessing,
	}

	id, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = id

	s.dispatch(ctx, post)

	return s.pr.GetByID(ctx, id)
}

// dispatch runs the publish protocol for one claimed post and writes
// exactly one terminal state.
func (s *publisherService) dispatch(ctx context.Context, post *models.ScheduledPost) {
	creds, err := s.resolveCredentials(ctx, post)
	if err != nil {
		s.markFailed(ctx, post.ID, err)
		return
	}

	mediaURL, err := s.resolveMediaURL(ctx, post)
	if err != nil {
		s.markFailed(ctx, post.ID, err)
		return
	}

	publisher, err := s.registry.Lookup(post.Platform)
	if err != nil {
		s.markFailed(ctx, post.ID, err)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	platformPostID, err := publisher.Publish(callCtx, creds, &platform.Content{
		Text:     post.Content,
		MediaURL: mediaURL,
	})
	if err != nil {
		slog.Info(fmt.Sprintf("publishing post %d to %s failed: %v", post.ID, post.Platform, err))
		s.markFailed(ctx, post.ID, err)
		return
	}

	ok, err := s.pr.MarkPublished(ctx, post.ID, time.Now())
	if err != nil {
		slog.Error(fmt.Sprintf("error recording published state for post %d: %v", post.ID, err))
		return
	}
	if !ok {
		// Someone else moved the post out of processing. The publish
		// already happened; all we can do is not clobber their write.
		slog.Warn(fmt.Sprintf("post %d left processing before terminal write, skipping", post.ID))
		return
	}

	slog.Info(fmt.Sprintf("post %d published to %s as %s", post.ID, post.Platform, platformPostID))
}

func (s *publisherService) markFailed(ctx context.Context, postID int64, cause error) {
	ok, err := s.pr.MarkFailed(ctx, postID, utils.Truncate(cause.Error(), errorLogLimit))
	if err != nil {
		slog.Error(fmt.Sprintf("error recording failed state for post %d: %v", postID, err))
		return
	}
	if !ok {
		slog.Warn(fmt.Sprintf("post %d left processing before failure write, skipping", postID))
	}
}

// resolveCredentials looks up the connected account, preferring an
// explicit account reference over the (user, platform) pair, and
// decrypts the stored token.
func (s *publisherService) resolveCredentials(ctx context.Context, post *models.ScheduledPost) (*platform.Credentials, error) {
	var account *models.ConnectedAccount
	var err error

	if post.AccountID != 0 {
		account, err = s.ca.GetByID(ctx, post.AccountID)
	} else {
		account, err = s.ca.GetByUserAndPlatform(ctx, post.UserID, post.Platform)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading connected account: %w", err)
	}
	if account == nil || account.UserID != post.UserID {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, post.Platform)
	}

	if account.AccessToken == "" || account.PlatformUserID == "" {
		return nil, fmt.Errorf("%w: %s", ErrCredentialsIncomplete, post.Platform)
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("error decrypting access token: %w", err)
	}

	return &platform.Credentials{
		AccessToken:    accessToken,
		PlatformUserID: account.PlatformUserID,
	}, nil
}

func (s *publisherService) resolveMediaURL(ctx context.Context, post *models.ScheduledPost) (string, error) {
	if post.MediaRef == 0 {
		return "", nil
	}

	// Ownership is enforced here, not only at creation, so a direct
	// publish cannot reference another user's asset.
	owned, err := s.ma.CheckByUserID(ctx, post.MediaRef, post.UserID)
	if err != nil {
		return "", fmt.Errorf("error checking media asset %d: %w", post.MediaRef, err)
	}
	if !owned {
		return "", fmt.Errorf("media asset %d does not exist", post.MediaRef)
	}

	asset, err := s.ma.GetByID(ctx, post.MediaRef)
	if err != nil {
		return "", fmt.Errorf("error loading media asset %d: %w", post.MediaRef, err)
	}
	if asset == nil || asset.FileURL == "" {
		return "", fmt.Errorf("media asset %d is missing or incomplete", post.MediaRef)
	}

	return asset.FileURL, nil
}
