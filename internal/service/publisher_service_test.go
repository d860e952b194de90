package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/platform"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

// stubPublisher lets a test script the adapter's outcome and observe
// what the dispatcher handed it.
type stubPublisher struct {
	platform    string
	postID      string
	err         error
	gotCreds    *platform.Credentials
	gotContent  *platform.Content
	beforeReply func()
}

func (p *stubPublisher) Platform() string { return p.platform }

func (p *stubPublisher) Publish(ctx context.Context, creds *platform.Credentials, content *platform.Content) (string, error) {
	p.gotCreds = creds
	p.gotContent = content
	if p.beforeReply != nil {
		p.beforeReply()
	}
	if p.err != nil {
		return "", p.err
	}
	return p.postID, nil
}

type publisherFixture struct {
	pr  *fakePostRepo
	ca  *fakeAccountRepo
	ma  *fakeMediaRepo
	pub *stubPublisher
	svc service.PublisherService
}

func newPublisherFixture(t *testing.T) *publisherFixture {
	t.Helper()

	f := &publisherFixture{
		pr:  newFakePostRepo(),
		ca:  newFakeAccountRepo(),
		ma:  newFakeMediaRepo(),
		pub: &stubPublisher{platform: models.PlatformLinkedin, postID: "urn:li:share:1"},
	}

	cfg := config.Config{SecretKey: testSecretKey}
	f.svc = service.NewPublisherService(cfg, f.pr, f.ca, f.ma, platform.NewRegistry(f.pub))

	encrypted, err := utils.Encrypt([]byte("plain-token"), []byte(testSecretKey))
	require.NoError(t, err)

	_, err = f.ca.Upsert(context.Background(), &models.ConnectedAccount{
		UserID:         1,
		Platform:       models.PlatformLinkedin,
		PlatformUserID: "member-1",
		AccessToken:    encrypted,
	})
	require.NoError(t, err)

	return f
}

func (f *publisherFixture) claimedPost(t *testing.T, post *models.ScheduledPost) int64 {
	t.Helper()
	post.Status = models.PostStatusProcessing
	id, err := f.pr.Create(context.Background(), nil, post)
	require.NoError(t, err)
	return id
}

func TestPublishSuccess(t *testing.T) {
	f := newPublisherFixture(t)
	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "hello network",
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, err := f.pr.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
	assert.Empty(t, post.ErrorLog)

	// The adapter got the decrypted token, never the stored ciphertext.
	require.NotNil(t, f.pub.gotCreds)
	assert.Equal(t, "plain-token", f.pub.gotCreds.AccessToken)
	assert.Equal(t, "member-1", f.pub.gotCreds.PlatformUserID)
	assert.Equal(t, "hello network", f.pub.gotContent.Text)
}

func TestPublishSkipsUnclaimedPost(t *testing.T) {
	f := newPublisherFixture(t)
	id, err := f.pr.Create(context.Background(), nil, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "not claimed",
		Status:   models.PostStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusPending, post.Status)
	assert.Nil(t, f.pub.gotCreds)
}

func TestPublishMissingPost(t *testing.T) {
	f := newPublisherFixture(t)
	assert.NoError(t, f.svc.Publish(context.Background(), 999))
}

func TestPublishPlatformRejection(t *testing.T) {
	f := newPublisherFixture(t)
	f.pub.err = &platform.RejectedError{
		Platform:   models.PlatformLinkedin,
		StatusCode: 401,
		Body:       "token expired",
	}

	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "doomed",
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "token expired")
	assert.Nil(t, post.PublishedAt)
}

func TestPublishNoConnectedAccount(t *testing.T) {
	f := newPublisherFixture(t)
	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   2, // user without any connected account
		Platform: models.PlatformLinkedin,
		Content:  "no account",
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "no connected account")
	assert.Nil(t, f.pub.gotCreds)
}

func TestPublishMissingMediaAsset(t *testing.T) {
	f := newPublisherFixture(t)
	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "with media",
		MediaRef: 42,
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "media asset 42")
}

func TestPublishNowForeignMediaAsset(t *testing.T) {
	f := newPublisherFixture(t)

	// Asset owned by someone else entirely.
	assetID, err := f.ma.Create(context.Background(), nil, &models.MediaAsset{
		UserID:  99,
		FileURL: "https://cdn.example.com/private.png",
	})
	require.NoError(t, err)

	post, err := f.svc.PublishNow(context.Background(), 1, &transfer.PublishNow{
		Content:  "not mine",
		Platform: models.PlatformLinkedin,
		MediaRef: assetID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "media asset")
	assert.Nil(t, post.PublishedAt)
	assert.Nil(t, f.pub.gotContent, "the adapter must never see a foreign asset")
}

func TestPublishForeignMediaAsset(t *testing.T) {
	f := newPublisherFixture(t)

	assetID, err := f.ma.Create(context.Background(), nil, &models.MediaAsset{
		UserID:  99,
		FileURL: "https://cdn.example.com/private.png",
	})
	require.NoError(t, err)

	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "not mine",
		MediaRef: assetID,
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Contains(t, post.ErrorLog, "media asset")
	assert.Nil(t, f.pub.gotContent)
}

func TestPublishErrorLogTruncated(t *testing.T) {
	f := newPublisherFixture(t)
	f.pub.err = &platform.RejectedError{
		Platform: models.PlatformLinkedin,
		Body:     strings.Repeat("x", 5000),
	}

	id := f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "huge error",
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Len(t, post.ErrorLog, 1000)
}

func TestPublishDoesNotClobberConcurrentWriter(t *testing.T) {
	f := newPublisherFixture(t)

	var id int64
	// While the adapter call is in flight, another writer moves the
	// post to failed. The success path must not overwrite it.
	f.pub.beforeReply = func() {
		f.pr.setStatus(id, models.PostStatusFailed)
	}

	id = f.claimedPost(t, &models.ScheduledPost{
		UserID:   1,
		Platform: models.PlatformLinkedin,
		Content:  "raced",
	})

	require.NoError(t, f.svc.Publish(context.Background(), id))

	post, _ := f.pr.GetByID(context.Background(), id)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestPublishNow(t *testing.T) {
	f := newPublisherFixture(t)

	post, err := f.svc.PublishNow(context.Background(), 1, &transfer.PublishNow{
		Content:  "right away",
		Platform: models.PlatformLinkedin,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
	assert.WithinDuration(t, time.Now(), *post.PublishedAt, 5*time.Second)
}

func TestPublishNowValidation(t *testing.T) {
	f := newPublisherFixture(t)

	_, err := f.svc.PublishNow(context.Background(), 1, &transfer.PublishNow{
		Platform: models.PlatformLinkedin,
	})
	assert.Error(t, err)

	_, err = f.svc.PublishNow(context.Background(), 1, &transfer.PublishNow{
		Content:  "hi",
		Platform: "myspace",
	})
	assert.Error(t, err)
}
