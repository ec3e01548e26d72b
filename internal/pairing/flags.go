package pairing

import (
	"time"

	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
)

// deriveFlags fills the derived booleans on a record whose factual fields
// are already populated. Thresholds come from the parser configuration.
func deriveFlags(rec *entity.PairingRecord, cfg common.ParserConfig) {
	rec.Redeye = anyRedeye(rec.Legs, cfg)
	rec.Commutable = isCommutable(rec, cfg)
	rec.Lazy = isLazy(rec, cfg)
	rec.WeekdayOnly = isWeekdayOnly(rec)

	for _, l := range rec.Legs {
		if l.Deadhead {
			rec.HasDeadhead = true
			break
		}
	}
	for _, lay := range rec.Layovers {
		if lay.Duration > rec.LongestLayover {
			rec.LongestLayover = lay.Duration
		}
	}
}

// anyRedeye: a leg is a redeye when it crosses local midnight with a block
// time under the cap, or when its span covers the configured redeye hour.
func anyRedeye(legs []entity.Leg, cfg common.ParserConfig) bool {
	for _, l := range legs {
		if l.ArrivesNextDay && l.Block <= cfg.RedeyeMaxBlock {
			return true
		}
		if spansClock(l.Departure, l.Arrival, cfg.RedeyeHour) {
			return true
		}
	}
	return false
}

// spansClock reports whether the [dep, arr] window covers the given time of
// day, accounting for windows that wrap past midnight.
func spansClock(dep, arr entity.ClockTime, at time.Duration) bool {
	if !dep.Set || !arr.Set {
		return false
	}
	d, a := dep.Offset(), arr.Offset()
	if d <= a {
		return d <= at && at <= a
	}
	return at >= d || at <= a
}

// isCommutable: the pairing touches base inside the commute window on the
// way out or the way back.
func isCommutable(rec *entity.PairingRecord, cfg common.ParserConfig) bool {
	if rec.Base == "" || len(rec.Legs) == 0 {
		return false
	}
	first, last := rec.Legs[0], rec.Legs[len(rec.Legs)-1]
	if first.Origin == rec.Base && rec.Report.Set && rec.Report.Offset() >= cfg.CommuteEarliestReport {
		return true
	}
	if last.Destination == rec.Base && rec.Release.Set && rec.Release.Offset() <= cfg.CommuteLatestRelease {
		return true
	}
	return false
}

// isLazy: a multi-day pairing whose flying workload is small relative to
// the time away from base.
func isLazy(rec *entity.PairingRecord, cfg common.ParserConfig) bool {
	if rec.DaysOfWork <= 1 || rec.TAFB <= 0 {
		return false
	}
	var duty time.Duration
	for _, l := range rec.Legs {
		duty += l.Block
	}
	return float64(duty)/float64(rec.TAFB) < cfg.LazyDutyRatio
}

// isWeekdayOnly: every worked day of every operating instance lands on a
// weekday. No operating dates means we cannot claim it.
func isWeekdayOnly(rec *entity.PairingRecord) bool {
	if len(rec.OperatingDates) == 0 || rec.DaysOfWork == 0 {
		return false
	}
	for _, ds := range rec.OperatingDates {
		start, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return false
		}
		for day := 0; day < rec.DaysOfWork; day++ {
			wd := start.AddDate(0, 0, day).Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				return false
			}
		}
	}
	return true
}
