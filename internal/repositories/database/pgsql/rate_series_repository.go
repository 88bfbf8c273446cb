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
)

// PgxRateSeriesRepository implements the rate series ports using pgxpool.
type PgxRateSeriesRepository struct {
	BaseRepository
}

func newPgxRateSeriesRepository(db *pgxpool.Pool) *PgxRateSeriesRepository {
	return &PgxRateSeriesRepository{BaseRepository: BaseRepository{Pool: db}}
}

// ListDatesInRange returns the dates in [start, end] that already have a
// rate point, ascending.
func (r *PgxRateSeriesRepository) ListDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT tarih FROM tlref WHERE tarih BETWEEN $1 AND $2 ORDER BY tarih`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tlref dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan tlref date: %w", err)
		}
		dates = append(dates, domain.Midnight(d))
	}
	return dates, rows.Err()
}

// UpsertByDate inserts or, on date conflict, replaces every field of the rate
// point (last write wins), so repeated writes are idempotent.
func (r *PgxRateSeriesRepository) UpsertByDate(ctx context.Context, rp domain.RatePoint) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tlref
			(tarih, tlref_oran, tlref_yuzde, gun_adi, hafta_sonu, yil, ay, gun, kaynak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tarih) DO UPDATE SET
			tlref_oran = EXCLUDED.tlref_oran,
			tlref_yuzde = EXCLUDED.tlref_yuzde,
			gun_adi = EXCLUDED.gun_adi,
			hafta_sonu = EXCLUDED.hafta_sonu,
			yil = EXCLUDED.yil,
			ay = EXCLUDED.ay,
			gun = EXCLUDED.gun,
			kaynak = EXCLUDED.kaynak,
			updated_at = CURRENT_TIMESTAMP`,
		rp.Date, rp.Rate, rp.Percentage, rp.DayName, rp.IsWeekend, rp.Year, rp.Month, rp.Day, string(rp.Provenance),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tlref record: %w", err)
	}
	return nil
}

// FindByDate retrieves the rate point for one date.
func (r *PgxRateSeriesRepository) FindByDate(ctx context.Context, date time.Time) (*domain.RatePoint, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT tarih, tlref_oran, tlref_yuzde, gun_adi, hafta_sonu, yil, ay, gun, kaynak, created_at, updated_at
		FROM tlref WHERE tarih = $1`,
		domain.Midnight(date),
	)
	rp, err := scanRatePoint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no tlref record on %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find tlref record: %w", err)
	}
	return rp, nil
}

// SeriesBetween returns all rate points in [start, end], ascending.
func (r *PgxRateSeriesRepository) SeriesBetween(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tarih, tlref_oran, tlref_yuzde, gun_adi, hafta_sonu, yil, ay, gun, kaynak, created_at, updated_at
		FROM tlref
		WHERE tarih BETWEEN $1 AND $2
		ORDER BY tarih`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tlref series: %w", err)
	}
	defer rows.Close()

	var points []domain.RatePoint
	for rows.Next() {
		rp, err := scanRatePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tlref record: %w", err)
		}
		points = append(points, *rp)
	}
	return points, rows.Err()
}

// CountAndMaxDate reports the table size and the most recent date present.
func (r *PgxRateSeriesRepository) CountAndMaxDate(ctx context.Context) (int64, *time.Time, error) {
	var count int64
	var maxDate *time.Time
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*), MAX(tarih) FROM tlref`).Scan(&count, &maxDate)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count tlref records: %w", err)
	}
	return count, maxDate, nil
}

// DistinctYears returns the years present in the series, ascending.
func (r *PgxRateSeriesRepository) DistinctYears(ctx context.Context) ([]int, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT yil FROM tlref ORDER BY yil`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tlref years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan tlref year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func scanRatePoint(row pgx.Row) (*domain.RatePoint, error) {
	var rp domain.RatePoint
	var kaynak string
	if err := row.Scan(&rp.Date, &rp.Rate, &rp.Percentage, &rp.DayName, &rp.IsWeekend,
		&rp.Year, &rp.Month, &rp.Day, &kaynak, &rp.CreatedAt, &rp.UpdatedAt); err != nil {
		return nil, err
	}
	rp.Date = domain.Midnight(rp.Date)
	rp.Provenance = domain.Provenance(kaynak)
	return &rp, nil
}
