package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
)

const creditResetPageSize = 100

// CreditResetJob tops up image credits for active subscriptions once a
// day, paging through the table by id.
type CreditResetJob struct {
	sr repository.SubscriptionRepository
}

func NewCreditResetJob(sr repository.SubscriptionRepository) *CreditResetJob {
	return &CreditResetJob{sr: sr}
}

func dailyBonus(plan string) int {
	if plan == models.PlanPro {
		return 10
	}
	return 2
}

func (j *CreditResetJob) Run() {
	ctx := context.Background()

	var afterID int64
	for {
		subs, err := j.sr.ListActive(ctx, afterID, creditResetPageSize)
		if err != nil {
			slog.Error(fmt.Sprintf("credit reset failed: %v", err))
			return
		}
		if len(subs) == 0 {
			return
		}

		for _, sub := range subs {
			if err := j.sr.AddCredits(ctx, sub.ID, dailyBonus(sub.Plan)); err != nil {
				slog.Info(fmt.Sprintf("error resetting credits for subscription %d: %v", sub.ID, err))
			}
			afterID = sub.ID
		}
	}
}
