package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const (
	creditsFree = 20
	creditsPro  = 100
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type SubscriptionService interface {
	VerifySignature(body []byte, signature string) error
	HandlePaymentEvent(ctx context.Context, event *transfer.PaymentEvent) error
	GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
}

type subscriptionService struct {
	cfg config.Config
	sr  repository.SubscriptionRepository
}

func NewSubscriptionService(cfg config.Config, sr repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		cfg: cfg,
		sr:  sr,
	}
}

// VerifySignature checks the provider's HMAC-SHA256 signature over the
// raw request body.
func (s *subscriptionService) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.cfg.PaymentWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		slog.Info("webhook signature mismatch")
		return ErrInvalidSignature
	}
	return nil
}

func (s *subscriptionService) HandlePaymentEvent(ctx context.Context, event *transfer.PaymentEvent) error {
	switch event.Event {
	case "subscription.activated", "payment.captured":
		notes := event.Payload.Payment.Entity.Notes

		userID, err := strconv.ParseInt(notes.UserID, 10, 64)
		if err != nil || userID == 0 {
			return fmt.Errorf("payment event carries no usable user id: %q", notes.UserID)
		}

		plan := notes.Plan
		if plan == "" {
			plan = models.PlanPro
		}

		credits := creditsFree
		if plan == models.PlanPro {
			credits = creditsPro
		}

		sub := &models.Subscription{
			UserID:                userID,
			Plan:                  plan,
			Status:                models.SubscriptionStatusActive,
			ImageCreditsRemaining: credits,
		}

		if _, err := s.sr.Upsert(ctx, sub); err != nil {
			return fmt.Errorf("error saving subscription: %w", err)
		}
		return nil

	default:
		slog.Info(fmt.Sprintf("ignoring payment event %q", event.Event))
		return nil
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	sub, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		err = errors.New("no subscription found")
		slog.Info(err.Error())
		return nil, err
	}
	return sub, nil
}
