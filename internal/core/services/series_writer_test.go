package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a fully derived rate point", func(t *testing.T) {
		repo := new(MockRateSeriesRepository)
		repo.On("UpsertByDate", ctx, mock.MatchedBy(func(rp domain.RatePoint) bool {
			return rp.Date.Equal(day(2024, 1, 5)) &&
				rp.Rate.Equal(decimal.NewFromFloat(45.1234)) &&
				rp.Percentage.Equal(decimal.NewFromFloat(0.451234)) &&
				rp.DayName == "Cuma" &&
				!rp.IsWeekend &&
				rp.Provenance == domain.ProvenanceSource
		})).Return(nil)

		writer := services.NewSeriesWriter(repo, testLogger())
		rp, err := writer.Write(ctx, time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC), decimal.NewFromFloat(45.1234), domain.ProvenanceSource)

		require.NoError(t, err)
		assert.Equal(t, day(2024, 1, 5), rp.Date)
		repo.AssertExpectations(t)
	})

	t.Run("keeps the caller's provenance", func(t *testing.T) {
		repo := new(MockRateSeriesRepository)
		repo.On("UpsertByDate", ctx, mock.MatchedBy(func(rp domain.RatePoint) bool {
			return rp.Provenance == domain.ProvenanceCarryForward
		})).Return(nil)

		writer := services.NewSeriesWriter(repo, testLogger())
		_, err := writer.Write(ctx, day(2024, 1, 6), decimal.NewFromFloat(45.0), domain.ProvenanceCarryForward)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("upsert failure is reported to the caller", func(t *testing.T) {
		boom := errors.New("deadlock detected")
		repo := new(MockRateSeriesRepository)
		repo.On("UpsertByDate", ctx, mock.Anything).Return(boom)

		writer := services.NewSeriesWriter(repo, testLogger())
		rp, err := writer.Write(ctx, day(2024, 1, 5), decimal.NewFromFloat(45.0), domain.ProvenanceSource)

		assert.Nil(t, rp)
		assert.ErrorIs(t, err, boom)
	})
}
