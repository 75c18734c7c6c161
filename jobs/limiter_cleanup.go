package jobs

import (
	"context"
	"log"
	"time"
)

// Sweeper drops per-client state that has been idle for too long
type Sweeper interface {
	Cleanup(maxIdle time.Duration) int
}

// LimiterCleanupJob keeps the rate limiter map from growing without bound
type LimiterCleanupJob struct {
	limiter Sweeper
	maxIdle time.Duration
}

func NewLimiterCleanupJob(limiter Sweeper, maxIdle time.Duration) *LimiterCleanupJob {
	return &LimiterCleanupJob{limiter: limiter, maxIdle: maxIdle}
}

func (j *LimiterCleanupJob) Name() string { return "rate-limiter-cleanup" }

func (j *LimiterCleanupJob) Run(_ context.Context) error {
	if n := j.limiter.Cleanup(j.maxIdle); n > 0 {
		log.Printf("🧹 Dropped %d idle rate limiters", n)
	}
	return nil
}
