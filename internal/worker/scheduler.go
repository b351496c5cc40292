package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DueProcessor is what the scheduler drives, satisfied by the publish service.
type DueProcessor interface {
	ProcessDue(ctx context.Context, limit int) (int, error)
}

type SchedulerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Scheduler polls for queue items whose scheduled time has passed and pushes
// them through the publish flow. The conditional status claim inside the
// service makes concurrent scheduler instances safe.
type Scheduler struct {
	l         *zap.Logger
	cfg       SchedulerConfig
	processor DueProcessor
}

func NewScheduler(l *zap.Logger, cfg SchedulerConfig, processor DueProcessor) *Scheduler {
	return &Scheduler{
		l:         l,
		cfg:       cfg,
		processor: processor,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.l.Info("publish scheduler started",
		zap.Duration("poll_interval", s.cfg.PollInterval),
		zap.Int("batch_size", s.cfg.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			s.l.Info("publish scheduler stopped")

			return
		case <-ticker.C:
			processed, err := s.processor.ProcessDue(ctx, s.cfg.BatchSize)
			if err != nil {
				s.l.Error("failed to process due items", zap.Error(err))
				continue
			}

			if processed > 0 {
				s.l.Info("processed scheduled items", zap.Int("count", processed))
			}
		}
	}
}
