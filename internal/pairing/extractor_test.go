package pairing

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/normalize"
	"github.com/crewtools/pairings-tracker/internal/segment"
)

func segFromLines(texts ...string) segment.PairingSegment {
	lines := make([]normalize.RawLine, len(texts))
	for i, t := range texts {
		lines[i] = normalize.RawLine{Page: 0, Line: i, Text: t}
	}
	return segment.PairingSegment{Index: 0, Lines: lines}
}

func testParserConfig() common.ParserConfig {
	return common.ParserConfig{
		RedeyeMaxBlock:        6 * time.Hour,
		RedeyeHour:            2 * time.Hour,
		CommuteEarliestReport: 11 * time.Hour,
		CommuteLatestRelease:  22*time.Hour + 30*time.Minute,
		LazyDutyRatio:         0.30,
		TAFBTolerance:         30 * time.Minute,
		MaxFailedRatio:        0.50,
		Workers:               2,
		MinRepeatPages:        3,
		DeadheadPrefixes:      []string{"DH", "AC", "UA", "LIM9", "AV", "VB", "AA"},
	}
}

func testExtractor() *Extractor {
	e := NewExtractor(testParserConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.Now = func() time.Time { return time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC) }
	return e
}

func sampleSegment() segment.PairingSegment {
	return segFromLines(
		"TRIP #101 Y4021 (YYC) YYC: 11111__ effective JAN 05 - JAN 26",
		"RPT 05:15",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"---- YVR HOTEL FAIRMONT PACIFIC 14h30 layover",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
		"TAFB: 41h40 Credit Time: 10h20, PERDIEM: 96.40",
		"RLS 22:55",
	)
}

func TestExtractFullSegment(t *testing.T) {
	rec, warnings, err := testExtractor().Extract(sampleSegment())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Y4021", rec.ID)
	assert.Equal(t, "101", rec.TripNumber)
	assert.Equal(t, "YYC", rec.Base)
	assert.Equal(t, entity.NewClock(5, 15), rec.Report)
	assert.Equal(t, entity.NewClock(22, 55), rec.Release)
	assert.Equal(t, 2, rec.DaysOfWork)
	assert.False(t, rec.Prelim)

	require.Len(t, rec.Legs, 2)
	assert.Equal(t, "WS123", rec.Legs[0].FlightNumber)
	assert.Equal(t, "WS456", rec.Legs[1].FlightNumber)

	require.Len(t, rec.Layovers, 1)
	assert.Equal(t, "YVR", rec.Layovers[0].City)
	assert.Equal(t, 14*time.Hour+30*time.Minute, rec.LongestLayover)

	assert.Equal(t, 41*time.Hour+40*time.Minute, rec.TAFB)
	assert.Equal(t, 10*time.Hour+20*time.Minute, rec.Credit)
	assert.InDelta(t, 5.17, rec.CreditPerDay, 1e-9)
	assert.InDelta(t, 96.40, rec.PerDiem, 1e-9)

	require.NotEmpty(t, rec.OperatingDates)
	assert.Equal(t, "2025-01-06", rec.OperatingDates[0])
	assert.Len(t, rec.OperatingDates, 15)

	assert.False(t, rec.Redeye)
	assert.False(t, rec.Commutable)
	assert.True(t, rec.Lazy)
	assert.False(t, rec.WeekdayOnly)
	assert.False(t, rec.HasDeadhead)
}

func TestExtractMissingReportWarnsOnly(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC) YYC: 11111__ effective JAN 05 - JAN 26",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
		"TAFB: 41h40 Credit Time: 10h20, PERDIEM: 96.40",
		"RLS 22:55",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	assert.Equal(t, "Y4021", rec.ID)
	assert.False(t, rec.Report.Set)
	assert.Equal(t, 41*time.Hour+40*time.Minute, rec.TAFB)

	require.Len(t, warnings, 1)
	assert.Equal(t, "report_time", warnings[0].Field)
	assert.Equal(t, "Y4021", warnings[0].PairingID)
}

func TestExtractTAFBDisagreementWarns(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"RPT 05:15",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"2 WS456 YVR YYC 18:10 20:00 1h50",
		"TAFB: 41h40 Credit Time: 10h20, PERDIEM: 96.40",
		"RLS 20:00",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	// The label wins over the report/release span.
	assert.Equal(t, 41*time.Hour+40*time.Minute, rec.TAFB)

	require.Len(t, warnings, 1)
	assert.Equal(t, "tafb", warnings[0].Field)
	assert.Contains(t, warnings[0].Message, "disagrees")
}

func TestExtractDerivesTAFBWhenUnlabeled(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"RPT 05:15",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
		"PERDIEM: 96.40",
		"RLS 22:55",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	assert.Equal(t, 41*time.Hour+40*time.Minute, rec.TAFB)

	require.Len(t, warnings, 1)
	assert.Equal(t, "tafb", warnings[0].Field)
	assert.Contains(t, warnings[0].Message, "derived")
}

func TestExtractReleaseBeforeLastArrivalWarns(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"RPT 05:15",
		"1 WS123 YYC YVR 06:15 07:40 1h25",
		"2 WS456 YVR YYC 21:10 22:55 1h45",
		"TAFB: 24h45 Credit Time: 10h20, PERDIEM: 96.40",
		"RLS 06:00",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	assert.Equal(t, entity.NewClock(6, 0), rec.Release)

	require.Len(t, warnings, 1)
	assert.Equal(t, "release_time", warnings[0].Field)
	assert.Contains(t, warnings[0].Message, "precedes last leg arrival")
}

func TestExtractReleaseAfterMidnightCrossingLeg(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"RPT 20:00",
		"1 WS001 YYC HNL 23:30 02:10 5h40",
		"TAFB: 6h35 Credit Time: 5h40, PERDIEM: 30.00",
		"RLS 02:35",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	require.Len(t, rec.Legs, 1)
	assert.True(t, rec.Legs[0].ArrivesNextDay)

	// 02:35 follows the 02:10 arrival on the same (next) day.
	assert.Empty(t, warnings)
}

func TestExtractNoLegsIsFieldError(t *testing.T) {
	seg := segFromLines(
		"TRIP #101 Y4021 (YYC)",
		"RPT 05:15",
		"RLS 22:55",
	)
	seg.Index = 3

	_, _, err := testExtractor().Extract(seg)
	require.Error(t, err)

	var ferr *common.FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 3, ferr.Segment)
	assert.Contains(t, ferr.Missing, "legs")
	assert.NotEmpty(t, ferr.Raw)
}

func TestExtractPrelimSegment(t *testing.T) {
	seg := segFromLines(
		"YEG: 111____ effective FEB 03 - FEB 24",
		"RPT 08:00",
		"1 WS200 YEG YVR 09:00 11:00 2h00",
		"TAFB: 10h00, PERDIEM: 40.00",
		"RLS 18:00",
	)

	rec, warnings, err := testExtractor().Extract(seg)
	require.NoError(t, err)
	assert.True(t, rec.Prelim)
	assert.Equal(t, "YEG", rec.Base)
	require.Len(t, rec.ID, 7)
	assert.Equal(t, byte('P'), rec.ID[0])
	assert.Equal(t, 10*time.Hour, rec.TAFB)
	assert.Empty(t, warnings)

	// Mon-Wed mask over Feb 03 - Feb 24 2025.
	assert.Len(t, rec.OperatingDates, 10)
	assert.Equal(t, "2025-02-03", rec.OperatingDates[0])
}
