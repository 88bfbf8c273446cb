package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository implements the ledger ports against the externally
// owned cash_flow_analysis table. It only ever reads rows and fills the
// tlref_faiz / tlref_faiz_kazanci pair; rows are never created or deleted.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(db *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: db}}
}

// ListRowsWithNullRate pages through rows with no rate yet, ascending by date.
func (r *PgxLedgerRepository) ListRowsWithNullRate(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tarih, anapara, tlref_faiz, tlref_faiz_kazanci
		FROM cash_flow_analysis
		WHERE tlref_faiz IS NULL
		ORDER BY tarih
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list null-rate ledger rows: %w", err)
	}
	defer rows.Close()
	return collectLedgerRows(rows)
}

// ListRows pages through every row, ascending by date.
func (r *PgxLedgerRepository) ListRows(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tarih, anapara, tlref_faiz, tlref_faiz_kazanci
		FROM cash_flow_analysis
		ORDER BY tarih
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger rows: %w", err)
	}
	defer rows.Close()
	return collectLedgerRows(rows)
}

// FindRateOnDate returns the ledger's own rate for a date when one is set.
func (r *PgxLedgerRepository) FindRateOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT tlref_faiz FROM cash_flow_analysis
		WHERE tarih = $1 AND tlref_faiz IS NOT NULL`,
		domain.Midnight(date),
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: no ledger rate on %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("failed to find ledger rate: %w", err)
	}
	return rate, nil
}

// UpdateRateAndAccrual sets rate and accrual for the row at date. Unless
// overwrite is set, the update is guarded with "tlref_faiz IS NULL" so a
// reconciled row is never regressed by an incremental run.
func (r *PgxLedgerRepository) UpdateRateAndAccrual(ctx context.Context, date time.Time, rate, accrual decimal.Decimal, overwrite bool) (int64, error) {
	query := `
		UPDATE cash_flow_analysis
		SET tlref_faiz = $2, tlref_faiz_kazanci = $3
		WHERE tarih = $1 AND tlref_faiz IS NULL`
	if overwrite {
		query = `
		UPDATE cash_flow_analysis
		SET tlref_faiz = $2, tlref_faiz_kazanci = $3
		WHERE tarih = $1`
	}

	tag, err := r.Pool.Exec(ctx, query, domain.Midnight(date), rate, accrual)
	if err != nil {
		return 0, fmt.Errorf("failed to update ledger row: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ApplyRateUpdates applies one batch of rate/accrual writes inside a single
// transaction, so a batch lands or rolls back as a whole.
func (r *PgxLedgerRepository) ApplyRateUpdates(ctx context.Context, updates []domain.RateUpdate, overwrite bool) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	query := `
		UPDATE cash_flow_analysis
		SET tlref_faiz = $2, tlref_faiz_kazanci = $3
		WHERE tarih = $1 AND tlref_faiz IS NULL`
	if overwrite {
		query = `
		UPDATE cash_flow_analysis
		SET tlref_faiz = $2, tlref_faiz_kazanci = $3
		WHERE tarih = $1`
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var affected int64
	for _, u := range updates {
		tag, err := tx.Exec(ctx, query, domain.Midnight(u.Date), u.Rate, u.Accrual)
		if err != nil {
			return 0, fmt.Errorf("failed to update ledger row %s: %w", u.Date.Format("2006-01-02"), err)
		}
		affected += tag.RowsAffected()
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return affected, nil
}

// WeekendRows returns up to limit Saturday/Sunday rows, ascending, for the
// weekend audit in the status report.
func (r *PgxLedgerRepository) WeekendRows(ctx context.Context, limit int) ([]domain.LedgerRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tarih, anapara, tlref_faiz, tlref_faiz_kazanci
		FROM cash_flow_analysis
		WHERE EXTRACT(DOW FROM tarih) IN (0, 6)
		ORDER BY tarih
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekend ledger rows: %w", err)
	}
	defer rows.Close()
	return collectLedgerRows(rows)
}

// Coverage reports how much of the ledger already carries a rate.
func (r *PgxLedgerRepository) Coverage(ctx context.Context) (*domain.CoverageReport, error) {
	report := &domain.CoverageReport{}
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(tlref_faiz), MIN(tarih), MAX(tarih)
		FROM cash_flow_analysis`,
	).Scan(&report.TotalRows, &report.RowsWithRate, &report.MinDate, &report.MaxDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger coverage: %w", err)
	}
	return report, nil
}

// AccrualsBetween returns the reconciled accrual series in [start, end].
func (r *PgxLedgerRepository) AccrualsBetween(ctx context.Context, start, end time.Time) ([]domain.DatedValue, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tarih, tlref_faiz_kazanci
		FROM cash_flow_analysis
		WHERE tlref_faiz_kazanci IS NOT NULL AND tarih BETWEEN $1 AND $2
		ORDER BY tarih`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger accruals: %w", err)
	}
	defer rows.Close()

	var values []domain.DatedValue
	for rows.Next() {
		var v domain.DatedValue
		if err := rows.Scan(&v.Date, &v.Value); err != nil {
			return nil, fmt.Errorf("failed to scan ledger accrual: %w", err)
		}
		v.Date = domain.Midnight(v.Date)
		values = append(values, v)
	}
	return values, rows.Err()
}

func collectLedgerRows(rows pgx.Rows) ([]domain.LedgerRow, error) {
	var result []domain.LedgerRow
	for rows.Next() {
		var lr domain.LedgerRow
		if err := rows.Scan(&lr.Date, &lr.Principal, &lr.Rate, &lr.Accrual); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		lr.Date = domain.Midnight(lr.Date)
		result = append(result, lr)
	}
	return result, rows.Err()
}
