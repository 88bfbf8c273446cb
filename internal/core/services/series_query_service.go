package services

import (
	"context"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
)

// SeriesQueryService serves read-only series data to the HTTP layer.
type SeriesQueryService struct {
	seriesRepo portsrepo.RateSeriesReader
	ledgerRepo portsrepo.LedgerReader
}

// NewSeriesQueryService creates a new SeriesQueryService.
func NewSeriesQueryService(seriesRepo portsrepo.RateSeriesReader, ledgerRepo portsrepo.LedgerReader) *SeriesQueryService {
	return &SeriesQueryService{seriesRepo: seriesRepo, ledgerRepo: ledgerRepo}
}

func (s *SeriesQueryService) SeriesBetween(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error) {
	return s.seriesRepo.SeriesBetween(ctx, domain.Midnight(start), domain.Midnight(end))
}

func (s *SeriesQueryService) AccrualsBetween(ctx context.Context, start, end time.Time) ([]domain.DatedValue, error) {
	return s.ledgerRepo.AccrualsBetween(ctx, domain.Midnight(start), domain.Midnight(end))
}

func (s *SeriesQueryService) Years(ctx context.Context) ([]int, error) {
	return s.seriesRepo.DistinctYears(ctx)
}
