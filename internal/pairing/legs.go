package pairing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/normalize"
)

// reLeg matches a flight line: work-day index, flight number, origin and
// destination, departure and arrival clock times, block time.
var reLeg = regexp.MustCompile(`(?i)^(\d{1,2})\s+([A-Z0-9_]{2,9})\s+([A-Z]{3})\s+([A-Z]{3})\s+(\d{2}:\d{2})\s+(\d{2}:\d{2})\s+(\d{1,3}h\d{2}|\d{1,2}:\d{2})\b`)

// deadheadDisplay replaces the flight number of positioning legs.
const deadheadDisplay = "000DH"

// scanLegs extracts all flight lines, in work-day order. A leg whose
// arrival clock reads earlier than its departure crossed midnight.
func scanLegs(lines []normalize.RawLine, deadheadPrefixes []string) []entity.Leg {
	var legs []entity.Leg
	for _, l := range lines {
		m := reLeg.FindStringSubmatch(l.Text)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		flight := strings.ToUpper(m[2])
		dep, errDep := entity.ParseClock(m[5])
		arr, errArr := entity.ParseClock(m[6])
		if errDep != nil || errArr != nil {
			continue
		}
		block, err := ParseDurationToken(m[7])
		if err != nil {
			continue
		}

		deadhead := isDeadhead(flight, deadheadPrefixes)
		display := flight
		if deadhead {
			display = deadheadDisplay
		}

		legs = append(legs, entity.Leg{
			Day:            day,
			FlightNumber:   flight,
			DisplayNumber:  display,
			Origin:         strings.ToUpper(m[3]),
			Destination:    strings.ToUpper(m[4]),
			Departure:      dep,
			Arrival:        arr,
			Block:          block,
			ArrivesNextDay: arr.Minutes < dep.Minutes,
			Deadhead:       deadhead,
		})
	}

	// Ordered by work day, then departure within the day, so leg order in
	// the record always follows the clock even when the packet prints
	// same-day legs out of sequence.
	sort.SliceStable(legs, func(i, j int) bool {
		if legs[i].Day != legs[j].Day {
			return legs[i].Day < legs[j].Day
		}
		return legs[i].Departure.Minutes < legs[j].Departure.Minutes
	})
	return legs
}

func isDeadhead(flight string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(flight, p) {
			return true
		}
	}
	return false
}
