package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// Reconciler drives one run of the pipeline: detect gaps, resolve each gap in
// ascending order, write each resolution before advancing (so carry-forward
// sees rates persisted earlier in the same run), then propagate into the
// ledger. A run always finishes with a report; single-record failures are
// counted, never fatal.
type Reconciler struct {
	seriesRepo   portsrepo.RateSeriesReader
	gapDetector  *GapDetector
	resolver     *RateResolver
	writer       *SeriesWriter
	propagator   *LedgerPropagator
	lookbackDays int
	logger       *slog.Logger
}

// NewReconciler creates a new Reconciler. lookbackDays sets the default
// detection window ("today minus lookback" through "today").
func NewReconciler(
	seriesRepo portsrepo.RateSeriesReader,
	gapDetector *GapDetector,
	resolver *RateResolver,
	writer *SeriesWriter,
	propagator *LedgerPropagator,
	lookbackDays int,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		seriesRepo:   seriesRepo,
		gapDetector:  gapDetector,
		resolver:     resolver,
		writer:       writer,
		propagator:   propagator,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Run executes the full pipeline and returns its report. The error return is
// reserved for fatal storage faults (the gap query itself failing); anything
// per-date lands in the report counts instead.
func (r *Reconciler) Run(ctx context.Context, opts domain.RunOptions) (*domain.RunReport, error) {
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	start := opts.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -r.lookbackDays)
	}
	start, end = domain.Midnight(start), domain.Midnight(end)

	report := &domain.RunReport{
		RunID:       uuid.NewString(),
		WindowStart: start,
		WindowEnd:   end,
		StartedAt:   time.Now(),
	}
	logger := r.logger.With(slog.String("run_id", report.RunID))
	logger.Info("reconciliation run started",
		slog.String("window_start", start.Format("2006-01-02")),
		slog.String("window_end", end.Format("2006-01-02")),
	)

	existing, err := r.seriesRepo.ListDatesInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list existing dates: %w", err)
	}
	gaps := r.gapDetector.MissingDates(start, end, existing)
	report.GapCount = len(gaps)
	logger.Info("gap detection finished", slog.Int("missing_dates", len(gaps)))

	// Ascending, write-then-advance: a carry-forward for a later gap may use
	// a value persisted for an earlier gap of this same run.
	for _, gapDate := range gaps {
		res, err := r.resolver.Resolve(ctx, gapDate)
		if err != nil {
			logger.Error("resolution failed",
				slog.String("date", gapDate.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			report.Unresolved++
			report.UnresolvedDates = append(report.UnresolvedDates, gapDate)
			continue
		}
		if !res.Resolved {
			report.Unresolved++
			report.UnresolvedDates = append(report.UnresolvedDates, gapDate)
			continue
		}

		if _, err := r.writer.Write(ctx, gapDate, res.Rate, res.Provenance); err != nil {
			logger.Error("write failed",
				slog.String("date", gapDate.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			report.WriteErrors++
			continue
		}

		switch res.Provenance {
		case domain.ProvenanceCarryForward:
			report.ResolvedFromCarry++
		default:
			report.ResolvedFromSource++
		}
	}

	ledger, err := r.propagator.Propagate(ctx, opts.FullReconcile)
	if err != nil {
		logger.Error("ledger propagation failed", slog.String("error", err.Error()))
	}
	if ledger != nil {
		report.Ledger = *ledger
	}

	report.FinishedAt = time.Now()
	logger.Info("reconciliation run finished",
		slog.Int("gaps", report.GapCount),
		slog.Int("from_source", report.ResolvedFromSource),
		slog.Int("from_carry_forward", report.ResolvedFromCarry),
		slog.Int("unresolved", report.Unresolved),
		slog.Int("write_errors", report.WriteErrors),
		slog.Int("ledger_updated", report.Ledger.Updated),
	)
	return report, nil
}

// weekendSampleSize bounds the weekend audit in the status report.
const weekendSampleSize = 10

// Status reports the current state of the series and the ledger.
func (r *Reconciler) Status(ctx context.Context) (*domain.StatusReport, error) {
	count, maxDate, err := r.seriesRepo.CountAndMaxDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("series status: %w", err)
	}
	coverage, err := r.propagator.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger coverage: %w", err)
	}
	weekends, err := r.propagator.WeekendRows(ctx, weekendSampleSize)
	if err != nil {
		return nil, fmt.Errorf("weekend audit: %w", err)
	}
	return &domain.StatusReport{
		SeriesCount:    count,
		SeriesLastDate: maxDate,
		Ledger:         *coverage,
		Weekends:       weekends,
	}, nil
}
