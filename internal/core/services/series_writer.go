package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// SeriesWriter persists resolved (date, rate) pairs into the TLREF series.
// Each write derives the percentage and calendar attributes and replaces any
// existing record for the date, so re-running with the same input yields the
// same stored state.
type SeriesWriter struct {
	repo   portsrepo.RateSeriesWriter
	logger *slog.Logger
}

// NewSeriesWriter creates a new SeriesWriter.
func NewSeriesWriter(repo portsrepo.RateSeriesWriter, logger *slog.Logger) *SeriesWriter {
	return &SeriesWriter{repo: repo, logger: logger}
}

// Write upserts one rate point. A failure is reported to the caller and must
// not stop processing of the other dates in the batch.
func (w *SeriesWriter) Write(ctx context.Context, date time.Time, rawRate decimal.Decimal, provenance domain.Provenance) (*domain.RatePoint, error) {
	rp := domain.NewRatePoint(date, rawRate, provenance)

	if err := w.repo.UpsertByDate(ctx, rp); err != nil {
		return nil, fmt.Errorf("upsert rate point %s: %w", rp.Date.Format("2006-01-02"), err)
	}

	w.logger.Info("rate point saved",
		slog.String("date", rp.Date.Format("2006-01-02")),
		slog.String("rate", rp.Rate.String()),
		slog.String("provenance", string(rp.Provenance)),
	)
	return &rp, nil
}
