package pairing

import (
	"regexp"
	"strings"
	"time"

	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/normalize"
)

var (
	reLayoverMarker = regexp.MustCompile(`(?i)----\s+([A-Z]{3})\b`)
	reLayoverCue    = regexp.MustCompile(`(?i)\b(hotel|overnight|layover)\b`)
	reLayoverDur    = regexp.MustCompile(`(?i)(\d{1,3}h\d{2})`)
	reCityCode      = regexp.MustCompile(`\b([A-Z]{3})\b`)
	reHotelName     = regexp.MustCompile(`(?i)\bhotel\s+([A-Z][A-Za-z'\- ]*[A-Za-z])`)
	reTrailingCue   = regexp.MustCompile(`(?i)\s*(hotel|overnight|layover)\s*$`)
)

// minCueOnlyLayover filters cue-only lines: without the "----" marker a
// rest period is only believable when it is at least a night long.
const minCueOnlyLayover = 8 * time.Hour

// scanLayovers captures layover-city lines. The canonical form is the
// "---- CTY" marker plus a hotel/overnight/layover cue; lines with only a
// cue are accepted when their duration clears minCueOnlyLayover.
func scanLayovers(lines []normalize.RawLine) []entity.Layover {
	var out []entity.Layover
	for _, l := range lines {
		cue := reLayoverCue.MatchString(l.Text)
		if !cue {
			continue
		}

		if m := reLayoverMarker.FindStringSubmatch(l.Text); m != nil {
			out = append(out, entity.Layover{
				City:     strings.ToUpper(m[1]),
				Hotel:    hotelName(l.Text),
				Duration: layoverDuration(l.Text),
			})
			continue
		}

		city := reCityCode.FindStringSubmatch(l.Text)
		if city == nil {
			continue
		}
		dur := layoverDuration(l.Text)
		if dur > 0 && dur < minCueOnlyLayover {
			continue
		}
		out = append(out, entity.Layover{
			City:     strings.ToUpper(city[1]),
			Hotel:    hotelName(l.Text),
			Duration: dur,
		})
	}
	return out
}

func layoverDuration(line string) time.Duration {
	m := reLayoverDur.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	d, err := ParseDurationToken(m[1])
	if err != nil {
		return 0
	}
	return d
}

func hotelName(line string) string {
	m := reHotelName.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(reTrailingCue.ReplaceAllString(m[1], ""))
}
