package dto

import (
	"fmt"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
)

// RunRequest triggers a manual reconciliation run.
type RunRequest struct {
	Start         *time.Time `json:"start"`
	End           *time.Time `json:"end"`
	FullReconcile bool       `json:"fullReconcile"`
}

// Validate rejects a window whose end precedes its start.
func (r RunRequest) Validate() error {
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return fmt.Errorf("%w: end %s precedes start %s",
			apperrors.ErrValidation, r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return nil
}

// ToRunOptions maps the request onto domain run options.
func (r RunRequest) ToRunOptions() domain.RunOptions {
	opts := domain.RunOptions{FullReconcile: r.FullReconcile}
	if r.Start != nil {
		opts.Start = *r.Start
	}
	if r.End != nil {
		opts.End = *r.End
	}
	return opts
}

// StatusResponse reports the state of the series and ledger tables.
type StatusResponse struct {
	SeriesCount    int64      `json:"seriesCount"`
	SeriesLastDate *time.Time `json:"seriesLastDate,omitempty"`
	LedgerTotal    int64      `json:"ledgerTotal"`
	LedgerWithRate int64      `json:"ledgerWithRate"`
	CoveragePct    float64    `json:"coveragePct"`
	LedgerMinDate  *time.Time `json:"ledgerMinDate,omitempty"`
	LedgerMaxDate  *time.Time `json:"ledgerMaxDate,omitempty"`
	// WeekendRows samples the ledger's weekend dates with their current
	// rate state, for the holiday-fill audit.
	WeekendRows []domain.LedgerRow `json:"weekendRows,omitempty"`
}

// ToStatusResponse maps a domain status report onto the response shape.
func ToStatusResponse(s *domain.StatusReport) StatusResponse {
	return StatusResponse{
		SeriesCount:    s.SeriesCount,
		SeriesLastDate: s.SeriesLastDate,
		LedgerTotal:    s.Ledger.TotalRows,
		LedgerWithRate: s.Ledger.RowsWithRate,
		CoveragePct:    s.Ledger.Ratio() * 100,
		LedgerMinDate:  s.Ledger.MinDate,
		LedgerMaxDate:  s.Ledger.MaxDate,
		WeekendRows:    s.Weekends,
	}
}
