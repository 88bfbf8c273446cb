package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatePoint_DerivedFields(t *testing.T) {
	// 2024-01-05 is a Friday.
	date := time.Date(2024, 1, 5, 14, 30, 0, 0, time.Local)
	rp := NewRatePoint(date, decimal.NewFromFloat(45.1234), ProvenanceSource)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rp.Date)
	assert.True(t, rp.Percentage.Equal(decimal.NewFromFloat(0.451234)), "percentage must be rate/100, got %s", rp.Percentage)
	assert.Equal(t, "Cuma", rp.DayName)
	assert.False(t, rp.IsWeekend)
	assert.Equal(t, 2024, rp.Year)
	assert.Equal(t, 1, rp.Month)
	assert.Equal(t, 5, rp.Day)
	assert.Equal(t, ProvenanceSource, rp.Provenance)
}

func TestNewRatePoint_Weekend(t *testing.T) {
	sat := NewRatePoint(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(45), ProvenanceCarryForward)
	sun := NewRatePoint(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(45), ProvenanceCarryForward)
	mon := NewRatePoint(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(45), ProvenanceSource)

	assert.True(t, sat.IsWeekend)
	assert.Equal(t, "Cumartesi", sat.DayName)
	assert.True(t, sun.IsWeekend)
	assert.Equal(t, "Pazar", sun.DayName)
	assert.False(t, mon.IsWeekend)
	assert.Equal(t, "Pazartesi", mon.DayName)
}

func TestDailyAccrual(t *testing.T) {
	// 45% raw rate on 1,000,000 principal for one day.
	rate := decimal.NewFromFloat(0.45)
	principal := decimal.NewFromInt(1_000_000)

	got, _ := DailyAccrual(rate, principal).Float64()
	require.InDelta(t, 1232.8767, got, 1e-3)
}

func TestSameDate(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)
	b := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(b, b.AddDate(0, 0, 1)))
}
