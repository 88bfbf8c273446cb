package services

import (
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
)

// GapDetector computes which dates of an expected daily calendar are missing
// a rate record. It is pure: no storage access, no side effects.
type GapDetector struct{}

// NewGapDetector creates a new GapDetector.
func NewGapDetector() *GapDetector { return &GapDetector{} }

// MissingDates returns every date in [start, end] (inclusive) that is absent
// from existing, ascending, without duplicates. Both bounds and the existing
// dates are compared at day granularity.
func (g *GapDetector) MissingDates(start, end time.Time, existing []time.Time) []time.Time {
	start = domain.Midnight(start)
	end = domain.Midnight(end)
	if end.Before(start) {
		return nil
	}

	have := make(map[time.Time]struct{}, len(existing))
	for _, d := range existing {
		have[domain.Midnight(d)] = struct{}{}
	}

	var missing []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}
