// Package importer loads historical TLREF values from EVDS spreadsheet
// exports into the rate series.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "EVDS"

// ImportResult summarizes one bulk load.
type ImportResult struct {
	RowsRead    int `json:"rowsRead"`
	Imported    int `json:"imported"`
	GapsFilled  int `json:"gapsFilled"`
	Skipped     int `json:"skipped"` // unparseable rows
	WriteErrors int `json:"writeErrors"`
}

// ExcelImporter reads an EVDS workbook and writes its rows through the
// series writer, filling internal calendar gaps by carry-forward so the
// loaded history is continuous.
type ExcelImporter struct {
	writer    *services.SeriesWriter
	carryDays int
	logger    *slog.Logger
}

// NewExcelImporter creates a new ExcelImporter. carryDays bounds the gap
// fill inside the imported range.
func NewExcelImporter(writer *services.SeriesWriter, carryDays int, logger *slog.Logger) *ExcelImporter {
	return &ExcelImporter{writer: writer, carryDays: carryDays, logger: logger}
}

type parsedRow struct {
	date time.Time
	rate decimal.Decimal
}

// ImportFile loads the workbook at path. The first column holds dates, the
// rate column is found by name (contains TLREF or ORAN). Unparseable rows
// are skipped and counted, not fatal.
func (i *ExcelImporter) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := defaultSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	rateCol := findRateColumn(rows[0])
	if rateCol < 0 {
		return nil, fmt.Errorf("no TLREF column in sheet %s", sheet)
	}

	result := &ImportResult{}
	var parsed []parsedRow
	for _, row := range rows[1:] {
		result.RowsRead++
		if len(row) <= rateCol || row[0] == "" || row[rateCol] == "" {
			result.Skipped++
			continue
		}
		date, err := parseDate(row[0])
		if err != nil {
			result.Skipped++
			continue
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[rateCol]), ",", "."))
		if err != nil {
			result.Skipped++
			continue
		}
		parsed = append(parsed, parsedRow{date: date, rate: rate})
	}
	if len(parsed) == 0 {
		return result, fmt.Errorf("no usable rows in sheet %s", sheet)
	}

	sort.Slice(parsed, func(a, b int) bool { return parsed[a].date.Before(parsed[b].date) })

	i.logger.Info("workbook parsed",
		slog.String("sheet", sheet),
		slog.Int("rows", result.RowsRead),
		slog.Int("usable", len(parsed)),
		slog.String("from", parsed[0].date.Format("2006-01-02")),
		slog.String("to", parsed[len(parsed)-1].date.Format("2006-01-02")),
	)

	for _, p := range withGapsFilled(parsed, i.carryDays, result) {
		provenance := domain.ProvenanceSource
		if p.filled {
			provenance = domain.ProvenanceCarryForward
		}
		if _, err := i.writer.Write(ctx, p.date, p.rate, provenance); err != nil {
			i.logger.Error("import write failed",
				slog.String("date", p.date.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			result.WriteErrors++
			continue
		}
		if p.filled {
			result.GapsFilled++
		} else {
			result.Imported++
		}
	}
	return result, nil
}

type importRow struct {
	date   time.Time
	rate   decimal.Decimal
	filled bool
}

// withGapsFilled expands the sorted rows to a continuous daily calendar,
// filling each missing date with the nearest prior rate within carryDays.
func withGapsFilled(parsed []parsedRow, carryDays int, result *ImportResult) []importRow {
	byDate := make(map[time.Time]decimal.Decimal, len(parsed))
	for _, p := range parsed {
		byDate[p.date] = p.rate
	}

	var out []importRow
	start, end := parsed[0].date, parsed[len(parsed)-1].date
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if rate, ok := byDate[d]; ok {
			out = append(out, importRow{date: d, rate: rate})
			continue
		}
		prev := d
		for back := 0; back < carryDays; back++ {
			prev = prev.AddDate(0, 0, -1)
			if rate, ok := byDate[prev]; ok {
				out = append(out, importRow{date: d, rate: rate, filled: true})
				byDate[d] = rate
				break
			}
		}
	}
	return out
}

func findRateColumn(header []string) int {
	for idx, name := range header {
		upper := strings.ToUpper(strings.TrimSpace(name))
		if strings.Contains(upper, "TLREF") || strings.Contains(upper, "ORAN") {
			return idx
		}
	}
	return -1
}

// parseDate accepts the dd-mm-yyyy EVDS export format, the common fallbacks
// spreadsheets produce, and raw Excel serial dates (General-formatted cells
// come through GetRows as the bare serial number).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02-01-2006", "2-1-2006", "02.01.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Midnight(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return domain.Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
