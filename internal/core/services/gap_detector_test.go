package services_test

import (
	"testing"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMissingDates(t *testing.T) {
	detector := services.NewGapDetector()

	t.Run("finds holes in the middle of the window", func(t *testing.T) {
		existing := []time.Time{
			day(2024, 1, 1),
			day(2024, 1, 2),
			day(2024, 1, 5),
		}

		missing := detector.MissingDates(day(2024, 1, 1), day(2024, 1, 5), existing)

		assert.Equal(t, []time.Time{day(2024, 1, 3), day(2024, 1, 4)}, missing)
	})

	t.Run("empty table yields every date in the window", func(t *testing.T) {
		missing := detector.MissingDates(day(2024, 1, 1), day(2024, 1, 5), nil)

		assert.Len(t, missing, 5)
		assert.Equal(t, day(2024, 1, 1), missing[0])
		assert.Equal(t, day(2024, 1, 5), missing[4])
	})

	t.Run("fully covered window yields nothing", func(t *testing.T) {
		existing := []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}

		missing := detector.MissingDates(day(2024, 1, 1), day(2024, 1, 3), existing)

		assert.Empty(t, missing)
	})

	t.Run("end before start yields nothing", func(t *testing.T) {
		missing := detector.MissingDates(day(2024, 1, 5), day(2024, 1, 1), nil)

		assert.Empty(t, missing)
	})

	t.Run("single day window", func(t *testing.T) {
		missing := detector.MissingDates(day(2024, 1, 1), day(2024, 1, 1), nil)

		assert.Equal(t, []time.Time{day(2024, 1, 1)}, missing)
	})

	t.Run("existing dates compared at day granularity", func(t *testing.T) {
		existing := []time.Time{
			time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
		}

		missing := detector.MissingDates(day(2024, 1, 1), day(2024, 1, 3), existing)

		assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 3)}, missing)
	})

	t.Run("ten day lookback window has eleven dates", func(t *testing.T) {
		end := day(2024, 3, 15)
		start := end.AddDate(0, 0, -10)

		missing := detector.MissingDates(start, end, nil)

		assert.Len(t, missing, 11)
		for i := 1; i < len(missing); i++ {
			assert.True(t, missing[i-1].Before(missing[i]))
		}
	})
}
