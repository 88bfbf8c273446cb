package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/apperrors"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock RateSource ---

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRate(ctx context.Context, date time.Time, seriesCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, date, seriesCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock RateSeriesRepository ---

type MockRateSeriesRepository struct {
	mock.Mock
}

func (m *MockRateSeriesRepository) ListDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockRateSeriesRepository) FindByDate(ctx context.Context, date time.Time) (*domain.RatePoint, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatePoint), args.Error(1)
}

func (m *MockRateSeriesRepository) SeriesBetween(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RatePoint), args.Error(1)
}

func (m *MockRateSeriesRepository) CountAndMaxDate(ctx context.Context) (int64, *time.Time, error) {
	args := m.Called(ctx)
	var maxDate *time.Time
	if args.Get(1) != nil {
		maxDate = args.Get(1).(*time.Time)
	}
	return args.Get(0).(int64), maxDate, args.Error(2)
}

func (m *MockRateSeriesRepository) DistinctYears(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRateSeriesRepository) UpsertByDate(ctx context.Context, rp domain.RatePoint) error {
	args := m.Called(ctx, rp)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListRowsWithNullRate(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) ListRows(ctx context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) FindRateOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) Coverage(ctx context.Context) (*domain.CoverageReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoverageReport), args.Error(1)
}

func (m *MockLedgerRepository) AccrualsBetween(ctx context.Context, start, end time.Time) ([]domain.DatedValue, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DatedValue), args.Error(1)
}

func (m *MockLedgerRepository) UpdateRateAndAccrual(ctx context.Context, date time.Time, rate, accrual decimal.Decimal, overwrite bool) (int64, error) {
	args := m.Called(ctx, date, rate, accrual, overwrite)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ApplyRateUpdates(ctx context.Context, updates []domain.RateUpdate, overwrite bool) (int64, error) {
	args := m.Called(ctx, updates, overwrite)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) WeekendRows(ctx context.Context, limit int) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

// --- In-memory fakes for pipeline tests ---

// fakeSeriesRepo is a map-backed rate series used by the reconciler tests,
// where write-then-advance and idempotence need real storage semantics.
type fakeSeriesRepo struct {
	mu     sync.Mutex
	points map[time.Time]domain.RatePoint
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{points: make(map[time.Time]domain.RatePoint)}
}

func (f *fakeSeriesRepo) ListDatesInRange(_ context.Context, start, end time.Time) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var dates []time.Time
	for d := range f.points {
		if !d.Before(start) && !d.After(end) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })
	return dates, nil
}

func (f *fakeSeriesRepo) FindByDate(_ context.Context, date time.Time) (*domain.RatePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rp, ok := f.points[domain.Midnight(date)]
	if !ok {
		return nil, fmt.Errorf("%w: no record", apperrors.ErrNotFound)
	}
	return &rp, nil
}

func (f *fakeSeriesRepo) SeriesBetween(_ context.Context, start, end time.Time) ([]domain.RatePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var points []domain.RatePoint
	for d, rp := range f.points {
		if !d.Before(start) && !d.After(end) {
			points = append(points, rp)
		}
	}
	sort.Slice(points, func(a, b int) bool { return points[a].Date.Before(points[b].Date) })
	return points, nil
}

func (f *fakeSeriesRepo) CountAndMaxDate(_ context.Context) (int64, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var maxDate *time.Time
	for d := range f.points {
		if maxDate == nil || d.After(*maxDate) {
			dd := d
			maxDate = &dd
		}
	}
	return int64(len(f.points)), maxDate, nil
}

func (f *fakeSeriesRepo) DistinctYears(_ context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[int]struct{}{}
	for d := range f.points {
		seen[d.Year()] = struct{}{}
	}
	var years []int
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func (f *fakeSeriesRepo) UpsertByDate(_ context.Context, rp domain.RatePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[rp.Date] = rp
	return nil
}

// fakeLedgerRepo is a map-backed cash-flow ledger.
type fakeLedgerRepo struct {
	mu   sync.Mutex
	rows map[time.Time]*domain.LedgerRow
}

func newFakeLedgerRepo(rows ...domain.LedgerRow) *fakeLedgerRepo {
	f := &fakeLedgerRepo{rows: make(map[time.Time]*domain.LedgerRow)}
	for i := range rows {
		r := rows[i]
		r.Date = domain.Midnight(r.Date)
		f.rows[r.Date] = &r
	}
	return f
}

func (f *fakeLedgerRepo) sortedRows(onlyNull bool) []domain.LedgerRow {
	var out []domain.LedgerRow
	for _, r := range f.rows {
		if onlyNull && r.Rate != nil {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

func page(rows []domain.LedgerRow, limit, offset int) []domain.LedgerRow {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (f *fakeLedgerRepo) ListRowsWithNullRate(_ context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.sortedRows(true), limit, offset), nil
}

func (f *fakeLedgerRepo) ListRows(_ context.Context, limit, offset int) ([]domain.LedgerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.sortedRows(false), limit, offset), nil
}

func (f *fakeLedgerRepo) FindRateOnDate(_ context.Context, date time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[domain.Midnight(date)]
	if !ok || row.Rate == nil {
		return decimal.Zero, fmt.Errorf("%w: no ledger rate", apperrors.ErrNotFound)
	}
	return *row.Rate, nil
}

func (f *fakeLedgerRepo) Coverage(_ context.Context) (*domain.CoverageReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report := &domain.CoverageReport{}
	for _, r := range f.rows {
		report.TotalRows++
		if r.Rate != nil {
			report.RowsWithRate++
		}
	}
	return report, nil
}

func (f *fakeLedgerRepo) AccrualsBetween(_ context.Context, start, end time.Time) ([]domain.DatedValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.DatedValue
	for d, r := range f.rows {
		if r.Accrual != nil && !d.Before(start) && !d.After(end) {
			out = append(out, domain.DatedValue{Date: d, Value: *r.Accrual})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out, nil
}

func (f *fakeLedgerRepo) ApplyRateUpdates(ctx context.Context, updates []domain.RateUpdate, overwrite bool) (int64, error) {
	var affected int64
	for _, u := range updates {
		n, err := f.UpdateRateAndAccrual(ctx, u.Date, u.Rate, u.Accrual, overwrite)
		if err != nil {
			return 0, err
		}
		affected += n
	}
	return affected, nil
}

func (f *fakeLedgerRepo) WeekendRows(_ context.Context, limit int) ([]domain.LedgerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerRow
	for _, r := range f.sortedRows(false) {
		wd := r.Date.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) UpdateRateAndAccrual(_ context.Context, date time.Time, rate, accrual decimal.Decimal, overwrite bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[domain.Midnight(date)]
	if !ok {
		return 0, nil
	}
	if row.Rate != nil && !overwrite {
		return 0, nil
	}
	r, a := rate, accrual
	row.Rate, row.Accrual = &r, &a
	return 1, nil
}
