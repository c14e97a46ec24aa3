package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RefreshProcessor defines the interface for refreshing recently built reports
type RefreshProcessor interface {
	RefreshRecent(ctx context.Context) error
}

// Scheduler handles periodic cache refresh of recently requested accounts
type Scheduler struct {
	processor RefreshProcessor
	interval  time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// New creates a new scheduler
func New(processor RefreshProcessor, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("report refresh scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("report refresh scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.process(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// process runs one refresh pass
func (s *Scheduler) process(ctx context.Context) {
	s.logger.Debug("refreshing recent reports")

	if err := s.processor.RefreshRecent(ctx); err != nil {
		s.logger.Error("failed to refresh recent reports", "error", err)
	}
}
