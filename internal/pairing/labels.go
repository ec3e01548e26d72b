package pairing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/normalize"
)

var (
	reReport  = regexp.MustCompile(`(?i)\bRPT\b.*?(\d{2}:\d{2})`)
	reRelease = regexp.MustCompile(`(?i)\bRLS\b.*?(\d{2}:\d{2})`)
	reTAFB    = regexp.MustCompile(`(?i)\bTAFB:\s*([^\s,]+)`)
	rePerDiem = regexp.MustCompile(`(?i)\bPERDIEM:\s*([\d.,]+)`)
	reCredit  = regexp.MustCompile(`(?i)\bCredit\s+Time:\s*([^\s,]+)`)
)

// scanReportRelease finds the RPT and RLS labels. Labels take precedence
// over positional inference: a leg timestamp is never promoted to
// report/release, so either value may legitimately come back unset.
func scanReportRelease(lines []normalize.RawLine) (report, release entity.ClockTime) {
	for _, l := range lines {
		if !report.Set {
			if m := reReport.FindStringSubmatch(l.Text); m != nil {
				if c, err := entity.ParseClock(m[1]); err == nil {
					report = c
				}
			}
		}
		if !release.Set {
			if m := reRelease.FindStringSubmatch(l.Text); m != nil {
				if c, err := entity.ParseClock(m[1]); err == nil {
					release = c
				}
			}
		}
	}
	return report, release
}

// scanTAFB returns the labeled TAFB value, if present and parseable.
func scanTAFB(lines []normalize.RawLine) (time.Duration, bool) {
	for _, l := range lines {
		if m := reTAFB.FindStringSubmatch(l.Text); m != nil {
			if d, err := ParseDurationToken(m[1]); err == nil {
				return d, true
			}
		}
	}
	return 0, false
}

// scanCredit returns the labeled credit time, if present and parseable.
func scanCredit(lines []normalize.RawLine) (time.Duration, bool) {
	for _, l := range lines {
		if m := reCredit.FindStringSubmatch(l.Text); m != nil {
			if d, err := ParseDurationToken(m[1]); err == nil {
				return d, true
			}
		}
	}
	return 0, false
}

// scanPerDiem returns the labeled per-diem amount, if present.
func scanPerDiem(lines []normalize.RawLine) (float64, bool) {
	for _, l := range lines {
		if m := rePerDiem.FindStringSubmatch(l.Text); m != nil {
			raw := strings.ReplaceAll(m[1], ",", "")
			raw = strings.TrimRight(raw, ".")
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
				return v, true
			}
		}
	}
	return 0, false
}
