package repositories

import (
	"context"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
)

// RateSeriesReader defines read operations over the TLREF series table.
type RateSeriesReader interface {
	// ListDatesInRange returns the dates in [start, end] (inclusive) that
	// already have a rate point, ascending.
	ListDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error)
	// FindByDate retrieves the rate point for one date, or apperrors.ErrNotFound.
	FindByDate(ctx context.Context, date time.Time) (*domain.RatePoint, error)
	// SeriesBetween returns all rate points in [start, end], ascending.
	SeriesBetween(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error)
	// CountAndMaxDate reports the table size and the most recent date present.
	CountAndMaxDate(ctx context.Context) (int64, *time.Time, error)
	// DistinctYears returns the years present in the series, ascending.
	DistinctYears(ctx context.Context) ([]int, error)
}

// RateSeriesWriter defines write operations over the TLREF series table.
type RateSeriesWriter interface {
	// UpsertByDate inserts the rate point or, when the date already exists,
	// replaces every raw and derived field (last write wins).
	UpsertByDate(ctx context.Context, rp domain.RatePoint) error
}

// RateSeriesRepositoryFacade combines all rate series repository interfaces.
type RateSeriesRepositoryFacade interface {
	RateSeriesReader
	RateSeriesWriter
}
