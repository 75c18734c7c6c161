package jobs

import (
	"context"
	"log"
)

// SessionExpirer closes checkout sessions past their deadline
type SessionExpirer interface {
	ExpireSessions(ctx context.Context) (int64, error)
}

// CheckoutExpiryJob expires abandoned checkout sessions
type CheckoutExpiryJob struct {
	payments SessionExpirer
}

func NewCheckoutExpiryJob(payments SessionExpirer) *CheckoutExpiryJob {
	return &CheckoutExpiryJob{payments: payments}
}

func (j *CheckoutExpiryJob) Name() string { return "checkout-expiry" }

func (j *CheckoutExpiryJob) Run(ctx context.Context) error {
	n, err := j.payments.ExpireSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("⏰ Expired %d checkout sessions", n)
	}
	return nil
}
