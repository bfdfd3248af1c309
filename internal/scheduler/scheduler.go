package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/services"
)

// RecurrenceScheduler periodically evaluates every user's recurring
// transactions. One evaluation fires immediately on Start, then one per
// interval until the context is cancelled or Stop is called.
type RecurrenceScheduler struct {
	recurrenceService services.RecurrenceServiceInterface
	interval          time.Duration
	logger            *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRecurrenceScheduler creates a scheduler that runs at the given interval
func NewRecurrenceScheduler(
	recurrenceService services.RecurrenceServiceInterface,
	interval time.Duration,
	logger *slog.Logger,
) *RecurrenceScheduler {
	return &RecurrenceScheduler{
		recurrenceService: recurrenceService,
		interval:          interval,
		logger:            logger,
		stopCh:            make(chan struct{}),
		doneCh:            make(chan struct{}),
	}
}

// Start runs the scheduling loop until the context is cancelled or Stop is
// called. It blocks; callers normally run it in a goroutine.
func (s *RecurrenceScheduler) Start(ctx context.Context) {
	defer close(s.doneCh)

	s.logger.Info("starting recurrence scheduler",
		slog.Duration("interval", s.interval),
	)

	// Initial evaluation at startup so templates do not wait a full interval
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("recurrence scheduler stopping", slog.String("reason", "context cancelled"))
			return
		case <-s.stopCh:
			s.logger.Info("recurrence scheduler stopping", slog.String("reason", "stop requested"))
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop signals the loop to exit and waits for it to finish
func (s *RecurrenceScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

func (s *RecurrenceScheduler) runOnce(ctx context.Context) {
	start := time.Now()

	if err := s.recurrenceService.RunAll(ctx, "scheduler"); err != nil {
		s.logger.Error("scheduled recurrence evaluation failed",
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("scheduled recurrence evaluation complete",
		slog.Duration("duration", time.Since(start)),
	)
}
