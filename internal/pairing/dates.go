package pairing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

var monthMap = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var (
	reMonthDay = regexp.MustCompile(`(?i)\b(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s+(\d{1,2})\b`)
	reEffRange = regexp.MustCompile(`(?i)\b(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s+(\d{1,2})\s*-\s*(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s+(\d{1,2})`)
	reExcept   = regexp.MustCompile(`(?i)except\s+(.*)`)
)

// effectiveWindow is how much context around the "effective" keyword is
// searched for the date range, mask and exceptions.
const effectiveWindow = 200

// determineEffectiveYear infers the year of the effective clause. Packets
// never print one; a date already behind the clock belongs to next year,
// and a January packet read in December rolls over.
func determineEffectiveYear(block string, now time.Time) int {
	year := now.Year()
	m := reMonthDay.FindStringSubmatch(block)
	if m == nil {
		return year
	}

	mon := monthMap[strings.ToUpper(m[1])]
	day, _ := strconv.Atoi(m[2])

	if mon == time.January && now.Month() == time.December {
		return year + 1
	}
	candidate := time.Date(year, mon, day, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		return year + 1
	}
	return year
}

// parseOperatingDates expands the effective window ("effective JAN 05 -
// FEB 02 except JAN 19") against the weekday mask into the concrete dates
// the pairing operates, formatted 2006-01-02.
func parseOperatingDates(block string, mask entity.WeekdayMask, year int) []string {
	idx := strings.Index(strings.ToLower(block), "effective")
	if idx == -1 {
		return nil
	}
	lo := idx - effectiveWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + effectiveWindow
	if hi > len(block) {
		hi = len(block)
	}
	window := block[lo:hi]

	m := reEffRange.FindStringSubmatch(window)
	if m == nil {
		return nil
	}
	startDay, _ := strconv.Atoi(m[2])
	endDay, _ := strconv.Atoi(m[4])
	start := time.Date(year, monthMap[strings.ToUpper(m[1])], startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, monthMap[strings.ToUpper(m[3])], endDay, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		end = end.AddDate(1, 0, 0)
	}

	exceptions := parseExceptions(window, start, end, year)

	var dates []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if !mask.Has(cur.Weekday()) {
			continue
		}
		if _, skip := exceptions[cur.Format("2006-01-02")]; skip {
			continue
		}
		dates = append(dates, cur.Format("2006-01-02"))
	}
	return dates
}

// parseExceptions collects the "except MON d ..." dates inside the window,
// trying both the effective year and the next one for ranges that wrap.
func parseExceptions(window string, start, end time.Time, year int) map[string]struct{} {
	out := map[string]struct{}{}
	m := reExcept.FindStringSubmatch(window)
	if m == nil {
		return out
	}
	for _, md := range reMonthDay.FindAllStringSubmatch(m[1], -1) {
		day, _ := strconv.Atoi(md[2])
		for _, y := range []int{year, year + 1} {
			d := time.Date(y, monthMap[strings.ToUpper(md[1])], day, 0, 0, 0, 0, time.UTC)
			if !d.Before(start) && !d.After(end) {
				out[d.Format("2006-01-02")] = struct{}{}
			}
		}
	}
	return out
}
