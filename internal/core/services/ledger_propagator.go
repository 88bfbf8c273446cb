package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
)

// LedgerPropagator copies resolved series rates into the cash_flow_analysis
// ledger, computing the daily accrual from rate and principal. Default mode
// only fills rows whose rate is null; rows that already carry a rate are only
// touched when the caller explicitly asks for a full reconcile.
type LedgerPropagator struct {
	seriesRepo   portsrepo.RateSeriesReader
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	batchSize    int
	lookbackDays int // bound for the ledger-side holiday carry-forward
	logger       *slog.Logger
}

// NewLedgerPropagator creates a new LedgerPropagator. batchSize bounds how
// many ledger rows one batch handles; lookbackDays bounds the holiday fill.
func NewLedgerPropagator(seriesRepo portsrepo.RateSeriesReader, ledgerRepo portsrepo.LedgerRepositoryFacade, batchSize, lookbackDays int, logger *slog.Logger) *LedgerPropagator {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &LedgerPropagator{
		seriesRepo:   seriesRepo,
		ledgerRepo:   ledgerRepo,
		batchSize:    batchSize,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Propagate walks every null-rate ledger row in batches and fills it from the
// rate point on the same date. Rows with no matching rate point are left
// untouched and counted as missing. A failure inside one batch never rolls
// back or blocks the other batches.
func (p *LedgerPropagator) Propagate(ctx context.Context, fullReconcile bool) (*domain.PropagationResult, error) {
	total := &domain.PropagationResult{}

	list := p.ledgerRepo.ListRowsWithNullRate
	if fullReconcile {
		list = p.ledgerRepo.ListRows
	}

	offset := 0
	for {
		rows, err := list(ctx, p.batchSize, offset)
		if err != nil {
			return total, fmt.Errorf("list ledger rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		batch := p.propagateBatch(ctx, rows, fullReconcile)
		total.Add(batch)

		if fullReconcile {
			offset += len(rows)
		} else {
			// Rows that stayed null (missing rate point or write error)
			// are skipped on the next page instead of re-fetched forever.
			offset += batch.MissingRate + batch.WriteErrors
		}
		if len(rows) < p.batchSize {
			break
		}
	}

	p.logger.Info("ledger propagation finished",
		slog.Int("batches", total.Batches),
		slog.Int("updated", total.Updated),
		slog.Int("missing_rate", total.MissingRate),
		slog.Int("write_errors", total.WriteErrors),
	)
	return total, nil
}

func (p *LedgerPropagator) propagateBatch(ctx context.Context, rows []domain.LedgerRow, fullReconcile bool) domain.PropagationResult {
	result := domain.PropagationResult{Batches: 1}

	updates := make([]domain.RateUpdate, 0, len(rows))
	for _, row := range rows {
		rp, err := p.seriesRepo.FindByDate(ctx, row.Date)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.MissingRate++
				continue
			}
			p.logger.Error("rate point lookup failed",
				slog.String("date", row.Date.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			result.WriteErrors++
			continue
		}
		updates = append(updates, domain.RateUpdate{
			Date:    row.Date,
			Rate:    rp.Percentage,
			Accrual: domain.DailyAccrual(rp.Percentage, row.Principal),
		})
	}
	if len(updates) == 0 {
		return result
	}

	// One transaction per batch: the batch lands or rolls back as a whole,
	// and a failed batch never blocks the following ones.
	affected, err := p.ledgerRepo.ApplyRateUpdates(ctx, updates, fullReconcile)
	if err != nil {
		p.logger.Error("ledger batch update failed",
			slog.Int("rows", len(updates)),
			slog.String("error", err.Error()),
		)
		result.WriteErrors += len(updates)
		return result
	}
	result.Updated = int(affected)
	return result
}

// HolidayFill fills null-rate ledger rows from the ledger's own most recent
// prior rate, for dates (weekends, holidays) that have no rate point at all.
// The backward search is bounded by lookbackDays.
func (p *LedgerPropagator) HolidayFill(ctx context.Context) (*domain.HolidayFillResult, error) {
	carry := NewCarryForward(PriorRateLookupFunc(p.ledgerRepo.FindRateOnDate))
	result := &domain.HolidayFillResult{}

	offset := 0
	for {
		rows, err := p.ledgerRepo.ListRowsWithNullRate(ctx, p.batchSize, offset)
		if err != nil {
			return result, fmt.Errorf("list ledger rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		skipped := 0
		for _, row := range rows {
			priorDate, rate, err := carry.FindPrior(ctx, row.Date, p.lookbackDays)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					result.NotFound++
				} else {
					result.Errors++
				}
				skipped++
				continue
			}

			accrual := domain.DailyAccrual(rate, row.Principal)
			affected, err := p.ledgerRepo.UpdateRateAndAccrual(ctx, row.Date, rate, accrual, false)
			if err != nil {
				p.logger.Error("holiday fill update failed",
					slog.String("date", row.Date.Format("2006-01-02")),
					slog.String("error", err.Error()),
				)
				result.Errors++
				skipped++
				continue
			}
			if affected > 0 {
				result.Updated++
				p.logger.Info("holiday row filled",
					slog.String("date", row.Date.Format("2006-01-02")),
					slog.String("prior_date", priorDate.Format("2006-01-02")),
					slog.String("rate", rate.String()),
				)
			}
		}

		offset += skipped
		if len(rows) < p.batchSize {
			break
		}
	}
	return result, nil
}

// Coverage exposes the ledger coverage report.
func (p *LedgerPropagator) Coverage(ctx context.Context) (*domain.CoverageReport, error) {
	return p.ledgerRepo.Coverage(ctx)
}

// WeekendRows exposes the weekend audit sample.
func (p *LedgerPropagator) WeekendRows(ctx context.Context, limit int) ([]domain.LedgerRow, error) {
	return p.ledgerRepo.WeekendRows(ctx, limit)
}
