package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	subs map[int64]*models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[int64]*models.Subscription)}
}

func (r *fakeSubscriptionRepo) Upsert(ctx context.Context, sub *models.Subscription) (int64, error) {
	if sub.ID == 0 {
		sub.ID = int64(len(r.subs) + 1)
	}
	r.subs[sub.UserID] = sub
	return sub.ID, nil
}

func (r *fakeSubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	return r.subs[userID], nil
}

func (r *fakeSubscriptionRepo) ConsumeImageCredit(ctx context.Context, userID int64) (bool, error) {
	sub, ok := r.subs[userID]
	if !ok || sub.Status != models.SubscriptionStatusActive || sub.ImageCreditsRemaining <= 0 {
		return false, nil
	}
	sub.ImageCreditsRemaining--
	return true, nil
}

func (r *fakeSubscriptionRepo) RefundImageCredit(ctx context.Context, userID int64) error {
	if sub, ok := r.subs[userID]; ok {
		sub.ImageCreditsRemaining++
	}
	return nil
}

func (r *fakeSubscriptionRepo) ListActive(ctx context.Context, afterID int64, limit int) ([]*models.Subscription, error) {
	var out []*models.Subscription
	for _, sub := range r.subs {
		if sub.Status == models.SubscriptionStatusActive && sub.ID > afterID {
			out = append(out, sub)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) AddCredits(ctx context.Context, id int64, credits int) error {
	for _, sub := range r.subs {
		if sub.ID == id {
			sub.ImageCreditsRemaining += credits
		}
	}
	return nil
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	cfg := config.Config{PaymentWebhookSecret: "hook-secret"}
	svc := service.NewSubscriptionService(cfg, newFakeSubscriptionRepo())

	body := []byte(`{"event":"payment.captured"}`)

	assert.NoError(t, svc.VerifySignature(body, signBody("hook-secret", body)))
	assert.ErrorIs(t, svc.VerifySignature(body, signBody("wrong-secret", body)), service.ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature(body, "not-a-signature"), service.ErrInvalidSignature)
}

func TestHandlePaymentEvent(t *testing.T) {
	cfg := config.Config{PaymentWebhookSecret: "hook-secret"}
	sr := newFakeSubscriptionRepo()
	svc := service.NewSubscriptionService(cfg, sr)

	raw := []byte(`{
		"event": "subscription.activated",
		"payload": {"payment": {"entity": {"notes": {"userId": "7", "plan": "pro"}}}}
	}`)
	var event transfer.PaymentEvent
	require.NoError(t, json.Unmarshal(raw, &event))

	require.NoError(t, svc.HandlePaymentEvent(context.Background(), &event))

	sub, err := sr.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, models.PlanPro, sub.Plan)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 100, sub.ImageCreditsRemaining)
}

func TestHandlePaymentEventIgnoresUnknownEvents(t *testing.T) {
	cfg := config.Config{PaymentWebhookSecret: "hook-secret"}
	sr := newFakeSubscriptionRepo()
	svc := service.NewSubscriptionService(cfg, sr)

	event := &transfer.PaymentEvent{Event: "refund.created"}
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), event))
	assert.Empty(t, sr.subs)
}

func TestHandlePaymentEventMissingUser(t *testing.T) {
	cfg := config.Config{PaymentWebhookSecret: "hook-secret"}
	svc := service.NewSubscriptionService(cfg, newFakeSubscriptionRepo())

	event := &transfer.PaymentEvent{Event: "payment.captured"}
	assert.Error(t, svc.HandlePaymentEvent(context.Background(), event))
}
