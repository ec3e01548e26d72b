// Package export renders a ParseResult as an XLSX workbook for crew who
// want the month in a spreadsheet.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

const sheet = "Pairings"

var headers = []string{
	"Pairing",
	"Trip #",
	"Base",
	"Report",
	"Release",
	"Days",
	"Legs",
	"TAFB",
	"Credit",
	"Per Diem",
	"Layovers",
	"Weekdays",
	"Redeye",
	"Commutable",
	"Lazy",
	"Deadhead",
}

// Service turns parse results into workbook bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX returns an XLSX workbook with one row per pairing.
func (s *Service) WriteXLSX(res entity.ParseResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, p := range res.Pairings {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, p.ID)
		write(2, p.TripNumber)
		write(3, p.Base)
		write(4, p.Report.String())
		write(5, p.Release.String())
		write(6, p.DaysOfWork)
		write(7, len(p.Legs))
		write(8, durationCell(p.TAFB))
		write(9, durationCell(p.Credit))
		write(10, p.PerDiem)
		write(11, layoverSummary(p.Layovers))
		write(12, p.Weekdays.String())
		write(13, p.Redeye)
		write(14, p.Commutable)
		write(15, p.Lazy)
		write(16, p.HasDeadhead)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("xlsx export complete",
		"pairings", len(res.Pairings),
		"month", int(res.Month),
		"year", res.Year,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func durationCell(d time.Duration) string {
	if d == 0 {
		return ""
	}
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dh%02d", mins/60, mins%60)
}

func layoverSummary(layovers []entity.Layover) string {
	if len(layovers) == 0 {
		return ""
	}
	parts := make([]string, len(layovers))
	for i, l := range layovers {
		parts[i] = l.City
		if l.Duration > 0 {
			parts[i] += " " + durationCell(l.Duration)
		}
	}
	return strings.Join(parts, ", ")
}
