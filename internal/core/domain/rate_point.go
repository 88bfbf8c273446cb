package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance records how a rate value was obtained.
type Provenance string

const (
	// ProvenanceSource means the value came straight from the EVDS API.
	ProvenanceSource Provenance = "SOURCE"
	// ProvenanceCarryForward means the value was copied from the nearest
	// earlier date with a known rate.
	ProvenanceCarryForward Provenance = "CARRY_FORWARD"
)

// gunAdlari maps Go weekday names to the Turkish names stored in the table.
var gunAdlari = map[time.Weekday]string{
	time.Monday:    "Pazartesi",
	time.Tuesday:   "Salı",
	time.Wednesday: "Çarşamba",
	time.Thursday:  "Perşembe",
	time.Friday:    "Cuma",
	time.Saturday:  "Cumartesi",
	time.Sunday:    "Pazar",
}

// RatePoint is one calendar date's resolved TLREF rate. The date is the
// unique key; everything except Rate and Provenance is derived from them and
// recomputed on every write.
type RatePoint struct {
	Date       time.Time       `json:"tarih"`
	Rate       decimal.Decimal `json:"tlrefOran"`  // native scale ("oran")
	Percentage decimal.Decimal `json:"tlrefYuzde"` // Rate / 100
	DayName    string          `json:"gunAdi"`
	IsWeekend  bool            `json:"haftaSonu"`
	Year       int             `json:"yil"`
	Month      int             `json:"ay"`
	Day        int             `json:"gun"`
	Provenance Provenance      `json:"kaynak"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// NewRatePoint builds a RatePoint for date with the given raw rate, deriving
// the percentage and calendar attributes. It is the only way rate points are
// constructed, so the derived fields can never drift from date and rate.
func NewRatePoint(date time.Time, rate decimal.Decimal, provenance Provenance) RatePoint {
	d := Midnight(date)
	wd := d.Weekday()
	return RatePoint{
		Date:       d,
		Rate:       rate,
		Percentage: rate.Div(decimal.NewFromInt(100)),
		DayName:    gunAdlari[wd],
		IsWeekend:  wd == time.Saturday || wd == time.Sunday,
		Year:       d.Year(),
		Month:      int(d.Month()),
		Day:        d.Day(),
		Provenance: provenance,
	}
}

// Midnight truncates t to its calendar date at midnight UTC. All dates in the
// engine are normalized through this before comparison or storage.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}
