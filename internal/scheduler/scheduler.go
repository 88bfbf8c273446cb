// Package scheduler runs the daily update and propagation jobs.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portssvc "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/platform/config"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers the daily series update and the follow-up ledger
// propagation on their cron slots. The engine assumes a single active
// writer, so a slot fires only when the previous run has finished;
// overlapping triggers are skipped, not queued.
type Scheduler struct {
	cron       *cron.Cron
	reconciler portssvc.ReconcilerSvcFacade
	ledger     portssvc.LedgerMaintenanceSvcFacade
	running    atomic.Bool
	logger     *slog.Logger
}

// New creates a Scheduler with the configured cron slots registered.
func New(cfg *config.Config, services *portssvc.ServiceContainer, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		reconciler: services.Reconciler,
		ledger:     services.Ledger,
		logger:     logger,
	}

	if _, err := s.cron.AddFunc(cfg.UpdateCronSpec, s.runUpdate); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.PropagateCronSpec, s.runPropagate); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("scheduler started")
	s.cron.Start()
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runUpdate() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still active, skipping scheduled update")
		return
	}
	defer s.running.Store(false)

	report, err := s.reconciler.Run(context.Background(), domain.RunOptions{})
	if err != nil {
		s.logger.Error("scheduled update failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled update finished",
		slog.Int("gaps", report.GapCount),
		slog.Int("unresolved", report.Unresolved),
	)
}

func (s *Scheduler) runPropagate() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still active, skipping scheduled propagation")
		return
	}
	defer s.running.Store(false)

	result, err := s.ledger.Propagate(context.Background(), false)
	if err != nil {
		s.logger.Error("scheduled propagation failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled propagation finished",
		slog.Int("updated", result.Updated),
		slog.Int("missing_rate", result.MissingRate),
	)
}
