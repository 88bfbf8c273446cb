package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunOptions controls one reconciliation run.
type RunOptions struct {
	// Start and End bound the detection window (inclusive). Zero values mean
	// "today minus the configured lookback" through "today".
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// FullReconcile opts the ledger pass in to overwriting rows that already
	// carry a rate. Default runs only fill nulls.
	FullReconcile bool `json:"fullReconcile"`
}

// RunReport is the summary every reconciliation run ends with, whether or not
// individual dates failed along the way.
type RunReport struct {
	RunID              string            `json:"runId"`
	WindowStart        time.Time         `json:"windowStart"`
	WindowEnd          time.Time         `json:"windowEnd"`
	GapCount           int               `json:"gapCount"`
	ResolvedFromSource int               `json:"resolvedFromSource"`
	ResolvedFromCarry  int               `json:"resolvedFromCarryForward"`
	Unresolved         int               `json:"unresolved"`
	UnresolvedDates    []time.Time       `json:"unresolvedDates,omitempty"`
	WriteErrors        int               `json:"writeErrors"`
	Ledger             PropagationResult `json:"ledger"`
	StartedAt          time.Time         `json:"startedAt"`
	FinishedAt         time.Time         `json:"finishedAt"`
}

// PropagationResult aggregates the per-batch counts of one ledger pass.
type PropagationResult struct {
	Batches     int `json:"batches"`
	Updated     int `json:"updated"`
	MissingRate int `json:"missingRate"` // rows with no matching rate point
	WriteErrors int `json:"writeErrors"`
}

// Add folds one batch's counts into the total.
func (p *PropagationResult) Add(b PropagationResult) {
	p.Batches += b.Batches
	p.Updated += b.Updated
	p.MissingRate += b.MissingRate
	p.WriteErrors += b.WriteErrors
}

// HolidayFillResult summarizes a ledger-side carry-forward pass.
type HolidayFillResult struct {
	Updated  int `json:"updated"`
	NotFound int `json:"notFound"`
	Errors   int `json:"errors"`
}

// CoverageReport describes how much of the ledger already carries a rate.
type CoverageReport struct {
	TotalRows    int64      `json:"totalRows"`
	RowsWithRate int64      `json:"rowsWithRate"`
	MinDate      *time.Time `json:"minDate,omitempty"`
	MaxDate      *time.Time `json:"maxDate,omitempty"`
}

// Ratio returns the covered fraction, zero for an empty ledger.
func (c CoverageReport) Ratio() float64 {
	if c.TotalRows == 0 {
		return 0
	}
	return float64(c.RowsWithRate) / float64(c.TotalRows)
}

// StatusReport is the combined state of the rate series and the ledger.
type StatusReport struct {
	SeriesCount    int64          `json:"seriesCount"`
	SeriesLastDate *time.Time     `json:"seriesLastDate,omitempty"`
	Ledger         CoverageReport `json:"ledger"`
	// Weekends samples the ledger's Saturday/Sunday rows, so an operator
	// can spot weekend dates the holiday fill has not reached yet.
	Weekends []LedgerRow `json:"weekendRows,omitempty"`
}

// DatedValue is one (date, value) pair of a queried series.
type DatedValue struct {
	Date  time.Time       `json:"tarih"`
	Value decimal.Decimal `json:"deger"`
}
