package services

import (
	"context"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
)

// ReconcilerSvcFacade drives full reconciliation runs of the rate series and
// the dependent ledger.
type ReconcilerSvcFacade interface {
	// Run executes detect -> resolve -> write -> propagate and always
	// returns a report; per-record failures are counted, never fatal.
	Run(ctx context.Context, opts domain.RunOptions) (*domain.RunReport, error)
	// Status reports the current state of the series and the ledger.
	Status(ctx context.Context) (*domain.StatusReport, error)
}

// LedgerMaintenanceSvcFacade exposes the ledger-side passes on their own,
// for the scheduler's second slot and the holiday-fill endpoint.
type LedgerMaintenanceSvcFacade interface {
	Propagate(ctx context.Context, fullReconcile bool) (*domain.PropagationResult, error)
	HolidayFill(ctx context.Context) (*domain.HolidayFillResult, error)
	Coverage(ctx context.Context) (*domain.CoverageReport, error)
	WeekendRows(ctx context.Context, limit int) ([]domain.LedgerRow, error)
}

// SeriesQuerySvcFacade serves read-only series data to the HTTP layer.
type SeriesQuerySvcFacade interface {
	SeriesBetween(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error)
	AccrualsBetween(ctx context.Context, start, end time.Time) ([]domain.DatedValue, error)
	Years(ctx context.Context) ([]int, error)
}

// ServiceContainer holds all service facades for handler and scheduler wiring.
type ServiceContainer struct {
	Reconciler ReconcilerSvcFacade
	Ledger     LedgerMaintenanceSvcFacade
	Series     SeriesQuerySvcFacade
}
