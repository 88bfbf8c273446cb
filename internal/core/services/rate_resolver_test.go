package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSeriesCodes = []string{"TP.BISTTLREF.ORAN", "TP.TLREF.AO", "TP.BIST.TLREF"}

func sourceUnavailable(code string) error {
	return fmt.Errorf("%w: series %s returned no value", apperrors.ErrSourceUnavailable, code)
}

func newResolver(source *MockRateSource, lookup services.PriorRateLookup, carryDays int) *services.RateResolver {
	return services.NewRateResolver(source, testSeriesCodes, services.NewCarryForward(lookup), carryDays, testLogger())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	target := day(2024, 1, 5)

	t.Run("first series code wins", func(t *testing.T) {
		source := new(MockRateSource)
		source.On("FetchRate", ctx, target, "TP.BISTTLREF.ORAN").Return(decimal.NewFromFloat(45.1234), nil)
		resolver := newResolver(source, mapLookup(nil), 7)

		res, err := resolver.Resolve(ctx, target)

		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.Equal(t, domain.ProvenanceSource, res.Provenance)
		assert.True(t, res.Rate.Equal(decimal.NewFromFloat(45.1234)))
		source.AssertNumberOfCalls(t, "FetchRate", 1)
	})

	t.Run("falls through failed codes in order", func(t *testing.T) {
		source := new(MockRateSource)
		source.On("FetchRate", ctx, target, "TP.BISTTLREF.ORAN").Return(decimal.Zero, sourceUnavailable("TP.BISTTLREF.ORAN"))
		source.On("FetchRate", ctx, target, "TP.TLREF.AO").Return(decimal.NewFromFloat(44.9), nil)
		resolver := newResolver(source, mapLookup(nil), 7)

		res, err := resolver.Resolve(ctx, target)

		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.Equal(t, domain.ProvenanceSource, res.Provenance)
		assert.True(t, res.Rate.Equal(decimal.NewFromFloat(44.9)))
		source.AssertNumberOfCalls(t, "FetchRate", 2)
	})

	t.Run("all codes fail then carry-forward supplies the rate", func(t *testing.T) {
		source := new(MockRateSource)
		for _, code := range testSeriesCodes {
			source.On("FetchRate", ctx, target, code).Return(decimal.Zero, sourceUnavailable(code))
		}
		lookup := mapLookup(map[time.Time]decimal.Decimal{
			day(2024, 1, 3): decimal.NewFromFloat(45.0),
		})
		resolver := newResolver(source, lookup, 7)

		res, err := resolver.Resolve(ctx, target)

		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.Equal(t, domain.ProvenanceCarryForward, res.Provenance)
		assert.Equal(t, day(2024, 1, 3), res.PriorDate)
		assert.True(t, res.Rate.Equal(decimal.NewFromFloat(45.0)))
		source.AssertNumberOfCalls(t, "FetchRate", 3)
	})

	t.Run("nothing available is unresolved, not an error", func(t *testing.T) {
		source := new(MockRateSource)
		for _, code := range testSeriesCodes {
			source.On("FetchRate", ctx, target, code).Return(decimal.Zero, sourceUnavailable(code))
		}
		resolver := newResolver(source, mapLookup(nil), 7)

		res, err := resolver.Resolve(ctx, target)

		require.NoError(t, err)
		assert.False(t, res.Resolved)
	})

	t.Run("storage fault during carry-forward is an error", func(t *testing.T) {
		source := new(MockRateSource)
		for _, code := range testSeriesCodes {
			source.On("FetchRate", ctx, target, code).Return(decimal.Zero, sourceUnavailable(code))
		}
		boom := errors.New("connection reset")
		lookup := services.PriorRateLookupFunc(func(_ context.Context, _ time.Time) (decimal.Decimal, error) {
			return decimal.Zero, boom
		})
		resolver := newResolver(source, lookup, 7)

		_, err := resolver.Resolve(ctx, target)

		assert.ErrorIs(t, err, boom)
	})
}
