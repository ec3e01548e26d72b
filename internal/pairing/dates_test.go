package pairing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDetermineEffectiveYear(t *testing.T) {
	tests := []struct {
		name  string
		block string
		now   time.Time
		want  int
	}{
		{"upcoming same year", "effective JAN 05 - JAN 26", date(2025, time.January, 2), 2025},
		{"january packet read in december", "effective JAN 05 - JAN 26", date(2024, time.December, 20), 2025},
		{"date already past rolls forward", "effective MAR 01 - MAR 28", date(2025, time.June, 15), 2026},
		{"no date falls back to current year", "no dates here", date(2025, time.June, 15), 2025},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineEffectiveYear(tt.block, tt.now))
		})
	}
}

func weekdaysOnlyMask() entity.WeekdayMask {
	var m entity.WeekdayMask
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		m = m.With(d)
	}
	return m
}

func TestParseOperatingDates(t *testing.T) {
	block := "TRIP #101 Y4021 (YYC) effective JAN 05 - JAN 26"
	dates := parseOperatingDates(block, weekdaysOnlyMask(), 2025)

	// Jan 5 2025 is a Sunday; within Jan 5-26 the weekdays are Jan 6-10,
	// 13-17 and 20-24.
	require.Len(t, dates, 15)
	assert.Equal(t, "2025-01-06", dates[0])
	assert.Equal(t, "2025-01-24", dates[len(dates)-1])
	assert.NotContains(t, dates, "2025-01-05")
	assert.NotContains(t, dates, "2025-01-11")
}

func TestParseOperatingDatesExceptions(t *testing.T) {
	block := "effective JAN 05 - JAN 26 except JAN 13 JAN 14"
	dates := parseOperatingDates(block, weekdaysOnlyMask(), 2025)

	require.Len(t, dates, 13)
	assert.NotContains(t, dates, "2025-01-13")
	assert.NotContains(t, dates, "2025-01-14")
	assert.Contains(t, dates, "2025-01-15")
}

func TestParseOperatingDatesRangeWrapsYear(t *testing.T) {
	block := "effective DEC 29 - JAN 04"
	dates := parseOperatingDates(block, entity.AllDays, 2025)

	require.Len(t, dates, 7)
	assert.Equal(t, "2025-12-29", dates[0])
	assert.Equal(t, "2026-01-04", dates[len(dates)-1])
}

func TestParseOperatingDatesWithoutEffectiveClause(t *testing.T) {
	assert.Nil(t, parseOperatingDates("TRIP #9 Z900 (YYZ)", entity.AllDays, 2025))
}
