package pairing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reParen     = regexp.MustCompile(`\([^)]*\)`)
	reHourMin   = regexp.MustCompile(`(?i)^(\d+)\s*h\s*(\d{1,2})?$`)
	reColonPair = regexp.MustCompile(`^(\d{1,3}):(\d{2})$`)
)

// ParseDurationToken parses the duration notations the packets use:
// "52h30", "4h 30", "4h", "18:20", or a bare minute count. Parenthesized
// annotations are ignored.
func ParseDurationToken(s string) (time.Duration, error) {
	s = strings.TrimSpace(reParen.ReplaceAllString(s, ""))
	if s == "" {
		return 0, fmt.Errorf("empty duration token")
	}

	if m := reHourMin.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins := 0
		if m[2] != "" {
			mins, _ = strconv.Atoi(m[2])
		}
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute, nil
	}
	if m := reColonPair.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute, nil
	}
	if mins, err := strconv.Atoi(s); err == nil {
		return time.Duration(mins) * time.Minute, nil
	}
	return 0, fmt.Errorf("could not parse duration token %q", s)
}

// formatDuration renders a duration in the packet's XXhMM notation.
func formatDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dh%02d", mins/60, mins%60)
}
