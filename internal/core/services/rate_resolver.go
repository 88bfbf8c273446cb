package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/sources"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of resolving one missing date. When Resolved is
// false the date stays a gap: the caller must not write a record for it and
// must report it separately from carry-forward successes.
type Resolution struct {
	Resolved   bool
	Rate       decimal.Decimal // native scale, not yet divided by 100
	Provenance domain.Provenance
	PriorDate  time.Time // set for carry-forward results
}

// RateResolver resolves a value for one missing date: first the external
// source, one series code at a time, then carry-forward from the series
// itself. Resolution is read-only; the writer persists.
type RateResolver struct {
	source       sources.RateSource
	seriesCodes  []string
	carryForward *CarryForward
	carryDays    int
	logger       *slog.Logger
}

// NewRateResolver creates a new RateResolver. seriesCodes are tried in order;
// carryDays bounds the backward search after all codes fail.
func NewRateResolver(source sources.RateSource, seriesCodes []string, carryForward *CarryForward, carryDays int, logger *slog.Logger) *RateResolver {
	return &RateResolver{
		source:       source,
		seriesCodes:  seriesCodes,
		carryForward: carryForward,
		carryDays:    carryDays,
		logger:       logger,
	}
}

// Resolve returns a (rate, provenance) pair for date, or an unresolved
// Resolution when neither the source nor carry-forward can supply one.
// Unresolved is an expected outcome, not an error; the error return is
// reserved for storage faults during the carry-forward scan.
func (r *RateResolver) Resolve(ctx context.Context, date time.Time) (Resolution, error) {
	for _, code := range r.seriesCodes {
		rate, err := r.source.FetchRate(ctx, date, code)
		if err == nil {
			r.logger.Info("rate fetched from source",
				slog.String("date", date.Format("2006-01-02")),
				slog.String("series_code", code),
				slog.String("rate", rate.String()),
			)
			return Resolution{Resolved: true, Rate: rate, Provenance: domain.ProvenanceSource}, nil
		}
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			// Transient per code: fall through to the next identifier.
			r.logger.Warn("series code failed",
				slog.String("date", date.Format("2006-01-02")),
				slog.String("series_code", code),
				slog.String("error", err.Error()),
			)
			continue
		}
		return Resolution{}, err
	}

	priorDate, rate, err := r.carryForward.FindPrior(ctx, date, r.carryDays)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.logger.Warn("no rate available", slog.String("date", date.Format("2006-01-02")))
			return Resolution{}, nil
		}
		return Resolution{}, err
	}

	r.logger.Info("rate carried forward",
		slog.String("date", date.Format("2006-01-02")),
		slog.String("prior_date", priorDate.Format("2006-01-02")),
		slog.String("rate", rate.String()),
	)
	return Resolution{Resolved: true, Rate: rate, Provenance: domain.ProvenanceCarryForward, PriorDate: priorDate}, nil
}
