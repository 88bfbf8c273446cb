package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
	portssvc "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/sources"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/platform/config"
	"github.com/shopspring/decimal"
)

// NewServiceContainer wires the reconciliation pipeline with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source sources.RateSource, logger *slog.Logger) *portssvc.ServiceContainer {
	// The series-writer path carries forward from the rate series itself,
	// in the native scale.
	carryForward := NewCarryForward(PriorRateLookupFunc(func(ctx context.Context, date time.Time) (decimal.Decimal, error) {
		rp, err := repos.RateSeriesRepo.FindByDate(ctx, date)
		if err != nil {
			return decimal.Zero, err
		}
		return rp.Rate, nil
	}))

	resolver := NewRateResolver(source, cfg.EVDSSeriesCodes, carryForward, cfg.CarryForwardDays, logger)
	writer := NewSeriesWriter(repos.RateSeriesRepo, logger)
	propagator := NewLedgerPropagator(repos.RateSeriesRepo, repos.LedgerRepo, cfg.LedgerBatchSize, cfg.LedgerLookbackDays, logger)
	reconciler := NewReconciler(repos.RateSeriesRepo, NewGapDetector(), resolver, writer, propagator, cfg.LookbackWindowDays, logger)

	return &portssvc.ServiceContainer{
		Reconciler: reconciler,
		Ledger:     propagator,
		Series:     NewSeriesQueryService(repos.RateSeriesRepo, repos.LedgerRepo),
	}
}

// Interface implementation checks.
var (
	_ portssvc.ReconcilerSvcFacade        = (*Reconciler)(nil)
	_ portssvc.LedgerMaintenanceSvcFacade = (*LedgerPropagator)(nil)
	_ portssvc.SeriesQuerySvcFacade       = (*SeriesQueryService)(nil)
)
