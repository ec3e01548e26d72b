// Package pairing extracts a structured PairingRecord from one segment of
// the line stream. It is a single pass over the segment with a named
// sub-scanner per field family.
package pairing

import (
	"log/slog"
	"math"
	"time"

	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/segment"
)

// Extractor turns pairing segments into records. Safe for concurrent use:
// it holds only configuration.
type Extractor struct {
	cfg common.ParserConfig
	log *slog.Logger

	// Now is the clock used for effective-year inference. Overridable in
	// tests; defaults to time.Now.
	Now func() time.Time
}

func NewExtractor(cfg common.ParserConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, log: logger, Now: time.Now}
}

// Extract parses one segment. Mandatory fields are the pairing identifier
// and at least one leg; anything else missing degrades to a zero value plus
// a soft warning, because partial data beats discarding the pairing.
func (e *Extractor) Extract(seg segment.PairingSegment) (entity.PairingRecord, []entity.Warning, error) {
	head := scanHeader(seg)
	legs := scanLegs(seg.Lines, e.cfg.DeadheadPrefixes)

	var missing []string
	if head == nil || head.pairing == "" {
		missing = append(missing, "pairing identifier")
	}
	if len(legs) == 0 {
		missing = append(missing, "legs")
	}
	if len(missing) > 0 {
		return entity.PairingRecord{}, nil, &common.FieldError{
			Segment: seg.Index,
			Missing: missing,
			Raw:     seg.Text(),
		}
	}

	rec := entity.PairingRecord{
		ID:         head.pairing,
		TripNumber: head.trip,
		Base:       head.base,
		Legs:       legs,
		Weekdays:   head.mask,
		Prelim:     head.prelim,
	}
	rec.DaysOfWork = daysOfWork(legs)

	var warnings []entity.Warning
	warn := func(field, msg string) {
		warnings = append(warnings, entity.Warning{PairingID: rec.ID, Field: field, Message: msg})
	}

	rec.Report, rec.Release = scanReportRelease(seg.Lines)
	if !rec.Report.Set {
		warn("report_time", "no RPT label found")
	}
	if !rec.Release.Set {
		warn("release_time", "no RLS label found")
	}

	// Release must not read earlier than the last arrival. A midnight-crossing
	// last leg puts both clocks on the arrival day, so a plain compare holds.
	if rec.Release.Set {
		last := legs[len(legs)-1]
		if last.Arrival.Set && rec.Release.Minutes < last.Arrival.Minutes {
			warn("release_time", "release "+rec.Release.String()+" precedes last leg arrival "+last.Arrival.String())
		}
	}

	span, spanKnown := dutySpan(rec)
	if tafb, ok := scanTAFB(seg.Lines); ok {
		rec.TAFB = tafb
		if spanKnown && absDuration(tafb-span) > e.cfg.TAFBTolerance {
			warn("tafb", "labeled TAFB "+formatDuration(tafb)+" disagrees with report/release span "+formatDuration(span))
		}
	} else if spanKnown {
		rec.TAFB = span
		warn("tafb", "no TAFB label found, derived from report/release span")
	} else {
		warn("tafb", "no TAFB label found")
	}

	if credit, ok := scanCredit(seg.Lines); ok {
		rec.Credit = credit
		if rec.DaysOfWork > 0 {
			perDay := credit.Hours() / float64(rec.DaysOfWork)
			rec.CreditPerDay = math.Round(perDay*100) / 100
		}
	}

	if perDiem, ok := scanPerDiem(seg.Lines); ok {
		rec.PerDiem = perDiem
	} else {
		warn("per_diem", "no PERDIEM label found")
	}

	rec.Layovers = scanLayovers(seg.Lines)

	block := seg.Text()
	year := determineEffectiveYear(block, e.Now())
	rec.OperatingDates = parseOperatingDates(block, rec.Weekdays, year)

	deriveFlags(&rec, e.cfg)

	e.log.Debug("segment extracted",
		"pairing_id", rec.ID,
		"legs", len(rec.Legs),
		"layovers", len(rec.Layovers),
		"days_of_work", rec.DaysOfWork,
		"warnings", len(warnings),
	)
	return rec, warnings, nil
}

func daysOfWork(legs []entity.Leg) int {
	max := 0
	for _, l := range legs {
		if l.Day > max {
			max = l.Day
		}
	}
	return max
}

// dutySpan computes release minus report across the worked-day span. Both
// labels must be present for the span to be known.
func dutySpan(rec entity.PairingRecord) (time.Duration, bool) {
	if !rec.Report.Set || !rec.Release.Set || rec.DaysOfWork == 0 {
		return 0, false
	}
	span := time.Duration(rec.DaysOfWork-1)*24*time.Hour + rec.Release.Offset() - rec.Report.Offset()
	if span <= 0 {
		span += 24 * time.Hour
	}
	return span, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
