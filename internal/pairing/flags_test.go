package pairing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

func leg(depH, depM, arrH, arrM int, block time.Duration) entity.Leg {
	dep := entity.NewClock(depH, depM)
	arr := entity.NewClock(arrH, arrM)
	return entity.Leg{
		Day:            1,
		Departure:      dep,
		Arrival:        arr,
		Block:          block,
		ArrivesNextDay: arr.Minutes < dep.Minutes,
	}
}

func TestAnyRedeye(t *testing.T) {
	cfg := testParserConfig()

	tests := []struct {
		name string
		l    entity.Leg
		want bool
	}{
		{"daytime hop", leg(6, 15, 7, 40, time.Hour+25*time.Minute), false},
		{"crosses midnight under block cap", leg(23, 50, 1, 20, time.Hour+30*time.Minute), true},
		{"spans the redeye hour", leg(23, 0, 5, 30, 6*time.Hour+30*time.Minute), true},
		{"evening leg ends before midnight", leg(21, 10, 22, 55, time.Hour+45*time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anyRedeye([]entity.Leg{tt.l}, cfg))
		})
	}
}

func TestSpansClock(t *testing.T) {
	at := 2 * time.Hour
	assert.True(t, spansClock(entity.NewClock(1, 0), entity.NewClock(3, 0), at))
	assert.True(t, spansClock(entity.NewClock(23, 0), entity.NewClock(4, 0), at))
	assert.False(t, spansClock(entity.NewClock(9, 0), entity.NewClock(17, 0), at))
	assert.False(t, spansClock(entity.NewClock(3, 0), entity.NewClock(8, 0), at))
	assert.False(t, spansClock(entity.ClockTime{}, entity.NewClock(3, 0), at))
}

func TestIsCommutable(t *testing.T) {
	cfg := testParserConfig()

	out := leg(12, 0, 13, 30, time.Hour+30*time.Minute)
	out.Origin, out.Destination = "YYC", "YVR"
	back := leg(18, 0, 19, 30, time.Hour+30*time.Minute)
	back.Origin, back.Destination = "YVR", "YYC"

	rec := entity.PairingRecord{
		Base:    "YYC",
		Legs:    []entity.Leg{out, back},
		Report:  entity.NewClock(11, 30),
		Release: entity.NewClock(23, 30),
	}
	assert.True(t, isCommutable(&rec, cfg), "late report at base")

	rec.Report = entity.NewClock(6, 0)
	assert.False(t, isCommutable(&rec, cfg), "early report, late release")

	rec.Release = entity.NewClock(20, 0)
	assert.True(t, isCommutable(&rec, cfg), "early release back at base")

	rec.Base = "YYZ"
	assert.False(t, isCommutable(&rec, cfg), "never touches base")
}

func TestIsLazy(t *testing.T) {
	cfg := testParserConfig()

	l1 := leg(8, 0, 9, 30, 90*time.Minute)
	l2 := leg(16, 0, 17, 30, 90*time.Minute)
	l2.Day = 2
	rec := entity.PairingRecord{
		Legs:       []entity.Leg{l1, l2},
		DaysOfWork: 2,
		TAFB:       30 * time.Hour,
	}
	assert.True(t, isLazy(&rec, cfg), "3h block over 30h away")

	rec.TAFB = 10 * time.Hour
	assert.False(t, isLazy(&rec, cfg), "ratio exactly at the threshold is not lazy")

	rec.DaysOfWork = 1
	rec.TAFB = 30 * time.Hour
	assert.False(t, isLazy(&rec, cfg), "day trips are never lazy")
}

func TestIsWeekdayOnly(t *testing.T) {
	rec := entity.PairingRecord{
		DaysOfWork:     2,
		OperatingDates: []string{"2025-01-06", "2025-01-13"},
	}
	assert.True(t, isWeekdayOnly(&rec), "monday starts, two-day trips")

	rec.OperatingDates = append(rec.OperatingDates, "2025-01-10")
	assert.False(t, isWeekdayOnly(&rec), "friday start spills into saturday")

	rec.OperatingDates = nil
	assert.False(t, isWeekdayOnly(&rec), "no dates, no claim")
}

func TestDeriveFlagsAggregates(t *testing.T) {
	dh := leg(6, 0, 7, 0, time.Hour)
	dh.Deadhead = true
	rec := entity.PairingRecord{
		Legs: []entity.Leg{dh},
		Layovers: []entity.Layover{
			{City: "YVR", Duration: 10 * time.Hour},
			{City: "YEG", Duration: 14*time.Hour + 30*time.Minute},
		},
	}
	deriveFlags(&rec, testParserConfig())

	assert.True(t, rec.HasDeadhead)
	assert.Equal(t, 14*time.Hour+30*time.Minute, rec.LongestLayover)
}
