package sources

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource is the external capability that serves rate values for exact
// dates. The same economic quantity may be published under several series
// codes; callers try them in order.
//
// A failed attempt returns an error wrapping apperrors.ErrSourceUnavailable,
// which is transient per code: the next code in the chain is tried.
type RateSource interface {
	FetchRate(ctx context.Context, date time.Time, seriesCode string) (decimal.Decimal, error)
}
