package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/flow"
)

// Scheduler runs the engine's periodic maintenance: expiring stale reporter
// prompts and evicting closed sessions from the in-memory store.
type Scheduler struct {
	cron      *cron.Cron
	engine    *flow.Engine
	retention time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(engine *flow.Engine, retention time.Duration) *Scheduler {
	if retention <= 0 {
		retention = time.Hour
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		engine:    engine,
		retention: retention,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Cancel reports whose prompt has sat unanswered past the timeout
	_, err := s.cron.AddFunc("* * * * *", s.sweepExpiredPrompts)
	if err != nil {
		zap.S().Errorw("failed to register prompt sweep job", "error", err)
	}

	// Drop closed sessions the archive already holds
	_, err = s.cron.AddFunc("*/10 * * * *", s.evictClosedSessions)
	if err != nil {
		zap.S().Errorw("failed to register eviction job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("moderation scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("moderation scheduler stopped")
}

func (s *Scheduler) sweepExpiredPrompts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if swept := s.engine.SweepExpiredPrompts(ctx); swept > 0 {
		zap.S().Infow("cancelled reports with expired prompts", "count", swept)
	}
}

func (s *Scheduler) evictClosedSessions() {
	cutoff := time.Now().Add(-s.retention)
	if evicted := s.engine.Store().CollectTerminal(cutoff); evicted > 0 {
		zap.S().Infow("evicted closed sessions from store", "count", evicted)
	}
}
