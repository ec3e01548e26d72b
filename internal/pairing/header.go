package pairing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/segment"
)

var (
	reTripHead    = regexp.MustCompile(`(?i)^TRIP\s*#\s*(\S+)\s+(\S+)`)
	reParenBase   = regexp.MustCompile(`\(([A-Z]{3})\)`)
	reBaseCode    = regexp.MustCompile(`^([A-Z]{3})\b`)
	reBaseMask    = regexp.MustCompile(`\b[A-Z]{3}:\s*([0-9_]{1,7})`)
	reBracketMask = regexp.MustCompile(`\[([^\]]+)\]`)
	reNearMask    = regexp.MustCompile(`(?i)([0-9_]{1,7})\s+effective`)
	reBinDigit    = regexp.MustCompile(`[01]`)
)

type headerInfo struct {
	trip    string
	pairing string
	base    string
	mask    entity.WeekdayMask
	prelim  bool
}

// scanHeader consumes the anchor line. Final packets carry a TRIP # header;
// preliminary packets may not, in which case a synthetic identifier is
// derived from the segment content so repeated parses stay stable.
func scanHeader(seg segment.PairingSegment) *headerInfo {
	if len(seg.Lines) == 0 {
		return nil
	}
	anchor := seg.Lines[0].Text

	h := &headerInfo{mask: entity.AllDays}
	if m := reTripHead.FindStringSubmatch(anchor); m != nil {
		h.trip = m[1]
		h.pairing = m[2]
		if b := reParenBase.FindStringSubmatch(anchor); b != nil {
			h.base = strings.ToUpper(b[1])
		} else if b := reBaseCode.FindStringSubmatch(anchor); b != nil {
			h.base = strings.ToUpper(b[1])
		}
	} else {
		if b := reBaseCode.FindStringSubmatch(anchor); b != nil {
			h.base = strings.ToUpper(b[1])
		}
		h.trip = h.base
		h.pairing = synthesizeID(seg.Text())
		h.prelim = true
	}

	if mask, ok := scanWeekdayMask(seg); ok {
		h.mask = mask
	}
	return h
}

// synthesizeID builds a stable pseudo pairing number for headerless prelim
// segments from a digest of the segment text.
func synthesizeID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("P%s", strings.ToUpper(hex.EncodeToString(sum[:3])))
}

// scanWeekdayMask looks for the weekday-operates notation near the
// effective clause, in order of reliability: the bracket form "[1101100]",
// the base form "YYC: 111____", then a bare mask just before "effective".
func scanWeekdayMask(seg segment.PairingSegment) (entity.WeekdayMask, bool) {
	for _, l := range seg.Lines {
		if m := reBracketMask.FindStringSubmatch(l.Text); m != nil {
			if mask, ok := parseBracketMask(m[1]); ok {
				return mask, true
			}
		}
	}
	for _, l := range seg.Lines {
		if m := reBaseMask.FindStringSubmatch(l.Text); m != nil {
			if mask, ok := parseUnderscoreMask(m[1]); ok {
				return mask, true
			}
		}
	}
	for _, l := range seg.Lines {
		if m := reNearMask.FindStringSubmatch(l.Text); m != nil {
			if mask, ok := parseUnderscoreMask(m[1]); ok {
				return mask, true
			}
		}
	}
	return 0, false
}

// parseBracketMask reads the "[1101100]" form: seven binary digits, Monday
// first.
func parseBracketMask(s string) (entity.WeekdayMask, bool) {
	digits := reBinDigit.FindAllString(s, -1)
	if len(digits) < 7 {
		return 0, false
	}
	var mask entity.WeekdayMask
	for i := 0; i < 7; i++ {
		if digits[i] == "1" {
			mask |= 1 << i
		}
	}
	if mask == 0 {
		return 0, false
	}
	return mask, true
}

// parseUnderscoreMask reads the "111____" form: any non-underscore marks
// the day as operating, Monday first, right-padded with underscores.
func parseUnderscoreMask(s string) (entity.WeekdayMask, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 7 {
		s = s[:7]
	}
	for len(s) < 7 {
		s += "_"
	}
	var mask entity.WeekdayMask
	for i := 0; i < 7; i++ {
		if s[i] != '_' {
			mask |= 1 << i
		}
	}
	if mask == 0 {
		return 0, false
	}
	return mask, true
}
