package repositories

import (
	"context"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the cash_flow_analysis table.
// The table is owned by an external system; rows are never created or
// deleted from here.
type LedgerReader interface {
	// ListRowsWithNullRate pages through rows that have no rate yet,
	// ascending by date.
	ListRowsWithNullRate(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error)
	// ListRows pages through every row, ascending by date. Used by the
	// explicit full-reconcile pass, which may rewrite reconciled rows.
	ListRows(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error)
	// FindRateOnDate returns the ledger's own rate for a date when one is
	// set, or apperrors.ErrNotFound. Used by the holiday carry-forward path.
	FindRateOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	// Coverage reports how much of the ledger already carries a rate.
	Coverage(ctx context.Context) (*domain.CoverageReport, error)
	// AccrualsBetween returns the reconciled accrual series in [start, end].
	AccrualsBetween(ctx context.Context, start, end time.Time) ([]domain.DatedValue, error)
	// WeekendRows returns up to limit Saturday/Sunday rows, ascending by
	// date, for the weekend audit.
	WeekendRows(ctx context.Context, limit int) ([]domain.LedgerRow, error)
}

// LedgerWriter defines the writes this service performs on the ledger.
type LedgerWriter interface {
	// UpdateRateAndAccrual sets rate and accrual for the row at date and
	// returns the number of rows affected. Unless overwrite is set the
	// update is guarded with "rate IS NULL" so reconciled rows are never
	// silently regressed.
	UpdateRateAndAccrual(ctx context.Context, date time.Time, rate, accrual decimal.Decimal, overwrite bool) (int64, error)
	// ApplyRateUpdates applies one batch of rate/accrual updates in a
	// single transaction and returns the number of rows affected. The
	// same null-rate guard as UpdateRateAndAccrual applies per row.
	ApplyRateUpdates(ctx context.Context, updates []domain.RateUpdate, overwrite bool) (int64, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
