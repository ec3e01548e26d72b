// Package assemble merges per-segment outcomes into the final ParseResult
// and enforces cross-record consistency.
package assemble

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
)

// Outcome is the result of extracting one segment: a record plus its soft
// warnings, or a field error. Outcomes arrive in segment order.
type Outcome struct {
	Record   *entity.PairingRecord
	Warnings []entity.Warning
	Err      *common.FieldError
}

// maxReportedCauses bounds how many per-segment failures an AssemblyError
// carries for diagnostics.
const maxReportedCauses = 5

// Assembler collects extraction outcomes into a ParseResult.
type Assembler struct {
	// MaxFailedRatio is the failed-segment fraction above which the whole
	// document is rejected instead of silently returning a near-empty set.
	MaxFailedRatio float64
	Log            *slog.Logger

	// Now anchors the month/year fallback when no record carries an
	// operating date. Overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewAssembler(maxFailedRatio float64, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{MaxFailedRatio: maxFailedRatio, Log: logger, Now: time.Now}
}

// Assemble validates the outcome set and produces the immutable result.
// Duplicate pairing identifiers within the month are a warning, not a
// failure: the later record wins.
func (a *Assembler) Assemble(docType entity.DocumentType, outcomes []Outcome) (entity.ParseResult, error) {
	total := len(outcomes)
	failed := 0
	var causes []*common.FieldError
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if len(causes) < maxReportedCauses {
				causes = append(causes, o.Err)
			}
		}
	}

	if total > 0 && float64(failed)/float64(total) > a.MaxFailedRatio {
		a.Log.Error("document mostly unparseable", "failed", failed, "total", total)
		return entity.ParseResult{}, &common.AssemblyError{Failed: failed, Total: total, Causes: causes}
	}

	result := entity.ParseResult{
		DocType:  docType,
		Pairings: make([]entity.PairingRecord, 0, total-failed),
	}

	seen := map[string]int{}
	for _, o := range outcomes {
		if o.Err != nil {
			result.Warnings = append(result.Warnings, entity.Warning{
				Field:   "segment",
				Message: o.Err.Error(),
			})
			continue
		}
		rec := *o.Record
		if prev, dup := seen[rec.ID]; dup {
			// Last wins.
			result.Pairings[prev] = rec
			result.Warnings = append(result.Warnings, entity.Warning{
				PairingID: rec.ID,
				Field:     "duplicate_pairing_id",
				Message:   fmt.Sprintf("pairing %s appears more than once; keeping the later occurrence", rec.ID),
			})
		} else {
			seen[rec.ID] = len(result.Pairings)
			result.Pairings = append(result.Pairings, rec)
		}
		result.Warnings = append(result.Warnings, o.Warnings...)
	}

	result.Month, result.Year = a.monthYear(result.Pairings)
	return result, nil
}

// monthYear resolves the packet month from the earliest operating date
// across records, falling back to the clock when none carries one.
func (a *Assembler) monthYear(records []entity.PairingRecord) (time.Month, int) {
	var earliest time.Time
	for _, r := range records {
		for _, ds := range r.OperatingDates {
			d, err := time.Parse("2006-01-02", ds)
			if err != nil {
				continue
			}
			if earliest.IsZero() || d.Before(earliest) {
				earliest = d
			}
		}
	}
	if earliest.IsZero() {
		now := a.Now()
		return now.Month(), now.Year()
	}
	return earliest.Month(), earliest.Year()
}
