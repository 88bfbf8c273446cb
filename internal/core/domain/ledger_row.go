package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// daysPerYear is the annualization base used for every accrual in the system.
var daysPerYear = decimal.NewFromInt(365)

// LedgerRow is one record of the cash_flow_analysis table. The table is owned
// by an external system; this service only ever fills Rate and Accrual.
type LedgerRow struct {
	Date      time.Time        `json:"tarih"`
	Principal decimal.Decimal  `json:"anapara"`
	Rate      *decimal.Decimal `json:"tlrefFaiz"`        // percentage scale, nil until reconciled
	Accrual   *decimal.Decimal `json:"tlrefFaizKazanci"` // nil iff Rate is nil
}

// HasRate reports whether the row has already been reconciled.
func (r LedgerRow) HasRate() bool { return r.Rate != nil }

// RateUpdate is one pending rate/accrual write for a ledger row.
type RateUpdate struct {
	Date    time.Time
	Rate    decimal.Decimal
	Accrual decimal.Decimal
}

// DailyAccrual computes the one-day interest amount for a principal at the
// given percentage rate, annualized over 365 days.
func DailyAccrual(rate, principal decimal.Decimal) decimal.Decimal {
	return rate.Mul(principal).Div(daysPerYear)
}
