package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriorRateLookup answers "what rate, if any, is recorded for exactly this
// date". Both the rate series table and the ledger's own rate column satisfy
// it, which is what lets the series-writer path and the ledger-reconcile path
// share one search.
type PriorRateLookup interface {
	RateOn(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

// PriorRateLookupFunc adapts a function to the PriorRateLookup interface.
type PriorRateLookupFunc func(ctx context.Context, date time.Time) (decimal.Decimal, error)

func (f PriorRateLookupFunc) RateOn(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	return f(ctx, date)
}

// CarryForward finds the nearest strictly-earlier date with a known rate,
// scanning backward one day at a time up to a caller-supplied bound. It never
// looks forward.
type CarryForward struct {
	lookup PriorRateLookup
}

// NewCarryForward creates a new CarryForward over the given lookup.
func NewCarryForward(lookup PriorRateLookup) *CarryForward {
	return &CarryForward{lookup: lookup}
}

// FindPrior returns the nearest prior rate within maxDays of target, together
// with the date it was found on. A match exactly maxDays back is accepted.
// When the bound is exhausted the error wraps apperrors.ErrNotFound.
func (c *CarryForward) FindPrior(ctx context.Context, target time.Time, maxDays int) (time.Time, decimal.Decimal, error) {
	search := domain.Midnight(target)
	for i := 0; i < maxDays; i++ {
		search = search.AddDate(0, 0, -1)

		rate, err := c.lookup.RateOn(ctx, search)
		if err == nil {
			return search, rate, nil
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		return time.Time{}, decimal.Zero, fmt.Errorf("carry-forward lookup on %s: %w", search.Format("2006-01-02"), err)
	}
	return time.Time{}, decimal.Zero, fmt.Errorf("%w: no rate within %d days before %s",
		apperrors.ErrNotFound, maxDays, domain.Midnight(target).Format("2006-01-02"))
}
