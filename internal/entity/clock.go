package entity

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day in base-local minutes since midnight. The zero
// value is "unset", which is distinct from midnight.
type ClockTime struct {
	Minutes int
	Set     bool
}

// NewClock builds a set ClockTime from hours and minutes.
func NewClock(h, m int) ClockTime {
	return ClockTime{Minutes: h*60 + m, Set: true}
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("clock %q out of range", s)
	}
	return NewClock(h, m), nil
}

func (c ClockTime) String() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.Minutes/60, c.Minutes%60)
}

// Offset returns the time of day as an offset from midnight.
func (c ClockTime) Offset() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return []byte(`"` + c.String() + `"`), nil
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*c = ClockTime{}
		return nil
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// WeekdayMask records which days of week a pairing operates.
// Bit 0 is Monday through bit 6 Sunday, matching the mask column order of
// the source documents.
type WeekdayMask uint8

// AllDays has every weekday bit set.
const AllDays WeekdayMask = 0x7F

// maskIndex maps a time.Weekday (Sunday=0) onto the Monday-first bit order.
func maskIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Has reports whether the mask includes the given weekday.
func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&(1<<maskIndex(d)) != 0
}

// With returns the mask with the given weekday set.
func (m WeekdayMask) With(d time.Weekday) WeekdayMask {
	return m | 1<<maskIndex(d)
}

// Count returns how many days are set.
func (m WeekdayMask) Count() int {
	n := 0
	for i := 0; i < 7; i++ {
		if m&(1<<i) != 0 {
			n++
		}
	}
	return n
}

func (m WeekdayMask) String() string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		if m&(1<<i) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (m WeekdayMask) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *WeekdayMask) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*m = 0
		return nil
	}
	var out WeekdayMask
	for i, ch := range s {
		if i >= 7 {
			break
		}
		if ch != '_' {
			out |= 1 << i
		}
	}
	*m = out
	return nil
}
