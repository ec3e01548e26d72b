package pairing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

func TestScanLegs(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"---- YVR HOTEL FAIRMONT PACIFIC 14h30 layover",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
		"TAFB: 41h40",
	)

	legs := scanLegs(seg.Lines, nil)
	require.Len(t, legs, 2)

	first := legs[0]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "WS123", first.FlightNumber)
	assert.Equal(t, "WS123", first.DisplayNumber)
	assert.Equal(t, "YYC", first.Origin)
	assert.Equal(t, "YVR", first.Destination)
	assert.Equal(t, entity.NewClock(6, 15), first.Departure)
	assert.Equal(t, entity.NewClock(7, 40), first.Arrival)
	assert.Equal(t, time.Hour+25*time.Minute, first.Block)
	assert.False(t, first.ArrivesNextDay)
	assert.False(t, first.Deadhead)

	assert.Equal(t, 2, legs[1].Day)
	assert.Equal(t, "WS456", legs[1].FlightNumber)
}

func TestScanLegsMidnightRollover(t *testing.T) {
	legs := scanLegs(segFromLines("1 WS001 YYC HNL 23:30 02:10 5h40").Lines, nil)
	require.Len(t, legs, 1)
	assert.True(t, legs[0].ArrivesNextDay)
}

func TestScanLegsDeadhead(t *testing.T) {
	prefixes := []string{"DH", "AC", "UA"}
	legs := scanLegs(segFromLines(
		"1 DH123 YYC YVR 06:00 07:00 1h00",
		"1 WS321 YVR YYC 09:00 10:05 1h05",
	).Lines, prefixes)
	require.Len(t, legs, 2)

	assert.True(t, legs[0].Deadhead)
	assert.Equal(t, "DH123", legs[0].FlightNumber)
	assert.Equal(t, "000DH", legs[0].DisplayNumber)

	assert.False(t, legs[1].Deadhead)
	assert.Equal(t, "WS321", legs[1].DisplayNumber)
}

func TestScanLegsSortsByDay(t *testing.T) {
	legs := scanLegs(segFromLines(
		"2 WS400 YVR YYC 18:00 20:10 1h10",
		"1 WS300 YYC YVR 08:00 09:25 1h25",
	).Lines, nil)
	require.Len(t, legs, 2)
	assert.Equal(t, 1, legs[0].Day)
	assert.Equal(t, 2, legs[1].Day)
}

func TestScanLegsOrdersSameDayByDeparture(t *testing.T) {
	legs := scanLegs(segFromLines(
		"1 WS402 YVR YYC 18:00 19:10 1h10",
		"1 WS401 YYC YVR 06:15 07:40 1h25",
	).Lines, nil)
	require.Len(t, legs, 2)
	assert.Equal(t, "WS401", legs[0].FlightNumber)
	assert.Equal(t, "WS402", legs[1].FlightNumber)
}

func TestScanLegsDeparturesNonDecreasing(t *testing.T) {
	legs := scanLegs(segFromLines(
		"2 WS404 YEG YYC 21:00 22:10 1h10",
		"1 WS402 YVR YEG 14:00 15:05 1h05",
		"2 WS403 YYC YEG 08:00 09:05 1h05",
		"1 WS401 YYC YVR 06:15 07:40 1h25",
	).Lines, nil)
	require.Len(t, legs, 4)

	for i := 1; i < len(legs); i++ {
		prev, cur := legs[i-1], legs[i]
		require.LessOrEqual(t, prev.Day, cur.Day)
		if prev.Day == cur.Day {
			assert.LessOrEqual(t, prev.Departure.Minutes, cur.Departure.Minutes)
		}
	}
}

func TestScanLegsColonBlockForm(t *testing.T) {
	legs := scanLegs(segFromLines("1 WS500 YYC YYZ 07:00 12:50 3:50").Lines, nil)
	require.Len(t, legs, 1)
	assert.Equal(t, 3*time.Hour+50*time.Minute, legs[0].Block)
}

func TestScanLayovers(t *testing.T) {
	lays := scanLayovers(segFromLines(
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"---- YVR HOTEL FAIRMONT PACIFIC 14h30 layover",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
	).Lines)
	require.Len(t, lays, 1)
	assert.Equal(t, "YVR", lays[0].City)
	assert.Equal(t, "FAIRMONT PACIFIC", lays[0].Hotel)
	assert.Equal(t, 14*time.Hour+30*time.Minute, lays[0].Duration)
}

func TestScanLayoversCueOnly(t *testing.T) {
	// Without the marker, a short rest period is not a layover.
	lays := scanLayovers(segFromLines("YVR airport hotel shuttle 2h30").Lines)
	assert.Empty(t, lays)

	lays = scanLayovers(segFromLines("long overnight in YWG 12h45").Lines)
	require.Len(t, lays, 1)
	assert.Equal(t, "YWG", lays[0].City)
	assert.Empty(t, lays[0].Hotel)
	assert.Equal(t, 12*time.Hour+45*time.Minute, lays[0].Duration)
}

func TestScanReportRelease(t *testing.T) {
	report, release := scanReportRelease(segFromLines(
		"RPT 05:15",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"RLS 22:55",
	).Lines)
	assert.Equal(t, entity.NewClock(5, 15), report)
	assert.Equal(t, entity.NewClock(22, 55), release)
}

func TestScanReportReleaseNeverInferredFromLegs(t *testing.T) {
	report, release := scanReportRelease(segFromLines(
		"1 WS123 YYC YVR 06:15 07:40 1h25",
	).Lines)
	assert.False(t, report.Set)
	assert.False(t, release.Set)
}

func TestScanTAFBAndCredit(t *testing.T) {
	lines := segFromLines("TAFB: 41h40 Credit Time: 10h20, PERDIEM: 96.40").Lines

	tafb, ok := scanTAFB(lines)
	require.True(t, ok)
	assert.Equal(t, 41*time.Hour+40*time.Minute, tafb)

	credit, ok := scanCredit(lines)
	require.True(t, ok)
	assert.Equal(t, 10*time.Hour+20*time.Minute, credit)

	perDiem, ok := scanPerDiem(lines)
	require.True(t, ok)
	assert.InDelta(t, 96.40, perDiem, 1e-9)
}

func TestScanPerDiemStripsThousandsSeparator(t *testing.T) {
	perDiem, ok := scanPerDiem(segFromLines("PERDIEM: 1,234.56").Lines)
	require.True(t, ok)
	assert.InDelta(t, 1234.56, perDiem, 1e-9)
}

func TestScanLabelsAbsent(t *testing.T) {
	lines := segFromLines("1 WS123 YYC YVR 06:15 07:40 1h25").Lines

	_, ok := scanTAFB(lines)
	assert.False(t, ok)
	_, ok = scanCredit(lines)
	assert.False(t, ok)
	_, ok = scanPerDiem(lines)
	assert.False(t, ok)
}
