// Package normalize turns raw page texts into a clean, ordered stream of
// logical lines. Each transform is a named rule so heuristics can be tuned
// and tested in isolation.
package normalize

import (
	"regexp"
	"strings"
)

// RawLine is one logical line of extracted text. Page and Line index the
// line's position in the source document, before blank lines are dropped.
type RawLine struct {
	Page int
	Line int
	Text string
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reDigits     = regexp.MustCompile(`\d+`)
)

// edgeDepth is how many lines at the top and bottom of a page are
// candidates for repeated header/footer stripping.
const edgeDepth = 2

type rule struct {
	name  string
	apply func(n *Normalizer, pages [][]RawLine) [][]RawLine
}

// rules run in order; the output of each feeds the next.
var rules = []rule{
	{"collapse_whitespace", (*Normalizer).collapseWhitespace},
	{"strip_repeated_edges", (*Normalizer).stripRepeatedEdges},
	{"stitch_page_breaks", (*Normalizer).stitchPageBreaks},
	{"drop_blank", (*Normalizer).dropBlank},
}

// Normalizer is a pure, deterministic line cleaner.
type Normalizer struct {
	// MinRepeatPages is how many pages must carry the same edge line at the
	// same relative position before it is treated as a header/footer.
	MinRepeatPages int
}

func NewNormalizer(minRepeatPages int) *Normalizer {
	if minRepeatPages < 2 {
		minRepeatPages = 2
	}
	return &Normalizer{MinRepeatPages: minRepeatPages}
}

// Normalize converts page texts into the cleaned line stream.
func (n *Normalizer) Normalize(pageTexts []string) []RawLine {
	pages := make([][]RawLine, len(pageTexts))
	for p, text := range pageTexts {
		text = reCRLF.ReplaceAllString(text, "\n")
		split := strings.Split(text, "\n")
		lines := make([]RawLine, len(split))
		for i, s := range split {
			lines[i] = RawLine{Page: p, Line: i, Text: s}
		}
		pages[p] = lines
	}

	for _, r := range rules {
		pages = r.apply(n, pages)
	}

	var out []RawLine
	for _, lines := range pages {
		out = append(out, lines...)
	}
	return out
}

func (n *Normalizer) collapseWhitespace(pages [][]RawLine) [][]RawLine {
	for _, lines := range pages {
		for i := range lines {
			t := reTabs.ReplaceAllString(lines[i].Text, " ")
			t = reMultiSpace.ReplaceAllString(t, " ")
			lines[i].Text = strings.TrimSpace(t)
		}
	}
	return pages
}

// stripRepeatedEdges drops lines that repeat across pages at the same
// relative position near a page edge. Page numbers vary, so digit runs are
// masked before comparing.
func (n *Normalizer) stripRepeatedEdges(pages [][]RawLine) [][]RawLine {
	if len(pages) < n.MinRepeatPages {
		return pages
	}

	counts := map[string]map[int]struct{}{}
	for p, lines := range pages {
		for slot, idx := range edgeSlots(len(lines)) {
			key := slot + "|" + edgeKey(lines[idx].Text)
			if counts[key] == nil {
				counts[key] = map[int]struct{}{}
			}
			counts[key][p] = struct{}{}
		}
	}

	for p, lines := range pages {
		keep := lines[:0]
		drop := map[int]bool{}
		for slot, idx := range edgeSlots(len(lines)) {
			key := slot + "|" + edgeKey(lines[idx].Text)
			if lines[idx].Text != "" && len(counts[key]) >= n.MinRepeatPages {
				drop[idx] = true
			}
		}
		for i, l := range lines {
			if !drop[i] {
				keep = append(keep, l)
			}
		}
		pages[p] = keep
	}
	return pages
}

// edgeSlots names the candidate header/footer positions of a page.
func edgeSlots(total int) map[string]int {
	slots := map[string]int{}
	for i := 0; i < edgeDepth && i < total; i++ {
		slots["t"+string(rune('0'+i))] = i
	}
	for i := 0; i < edgeDepth && total-1-i >= edgeDepth; i++ {
		slots["b"+string(rune('0'+i))] = total - 1 - i
	}
	return slots
}

func edgeKey(text string) string {
	return reDigits.ReplaceAllString(strings.ToLower(text), "#")
}

// stitchPageBreaks re-joins a line broken across a page boundary: the
// trailing line of a page without terminal punctuation absorbs the next
// page's leading line when that line continues lowercase or numeric.
// Best-effort, not guaranteed correct.
func (n *Normalizer) stitchPageBreaks(pages [][]RawLine) [][]RawLine {
	for p := 0; p < len(pages)-1; p++ {
		tail := lastNonBlank(pages[p])
		head := firstNonBlank(pages[p+1])
		if tail < 0 || head < 0 {
			continue
		}
		prev := pages[p][tail].Text
		next := pages[p+1][head].Text
		if hasTerminalPunct(prev) || !continuesLine(next) {
			continue
		}
		pages[p][tail].Text = prev + " " + next
		pages[p+1] = append(pages[p+1][:head], pages[p+1][head+1:]...)
	}
	return pages
}

func (n *Normalizer) dropBlank(pages [][]RawLine) [][]RawLine {
	for p, lines := range pages {
		keep := lines[:0]
		for _, l := range lines {
			if l.Text != "" {
				keep = append(keep, l)
			}
		}
		pages[p] = keep
	}
	return pages
}

func lastNonBlank(lines []RawLine) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Text != "" {
			return i
		}
	}
	return -1
}

func firstNonBlank(lines []RawLine) int {
	for i := range lines {
		if lines[i].Text != "" {
			return i
		}
	}
	return -1
}

func hasTerminalPunct(s string) bool {
	if s == "" {
		return true
	}
	switch s[len(s)-1] {
	case '.', ':', ';', '!', '?':
		return true
	}
	return false
}

func continuesLine(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
