// Package segment splits the normalized line stream into per-pairing
// segments anchored on pairing-number headers.
package segment

import (
	"regexp"
	"strings"

	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/normalize"
)

// PairingSegment is a contiguous run of lines belonging to one pairing.
// Segments own their lines exclusively; extraction over distinct segments
// can run in parallel.
type PairingSegment struct {
	Index int
	Lines []normalize.RawLine
}

// Text joins the segment's lines, mainly for diagnostics and synthesized
// prelim identifiers.
func (s PairingSegment) Text() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

var (
	reFinalAnchor = regexp.MustCompile(`(?i)^TRIP\s*#`)
	// Preliminary packets open pairings with a base code and an effective
	// clause instead of a TRIP # header.
	rePrelimAnchor = regexp.MustCompile(`(?i)^[A-Z]{3,}\b.*\beffective\s+[A-Z]{3}\s+\d{1,2}`)
)

// Segmenter scans for pairing anchors. The anchor set depends on the
// document type flag supplied with the upload.
type Segmenter struct{}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits lines into pairing segments. Lines before the first anchor
// (cover pages) are discarded. A document with no anchor at all is a
// structural error, never an empty result.
func (g *Segmenter) Segment(lines []normalize.RawLine, docType entity.DocumentType) ([]PairingSegment, error) {
	isAnchor := func(text string) bool {
		if reFinalAnchor.MatchString(text) {
			return true
		}
		return docType == entity.DocPrelim && rePrelimAnchor.MatchString(text)
	}

	var segments []PairingSegment
	var current *PairingSegment
	for _, l := range lines {
		if isAnchor(l.Text) {
			if current != nil {
				segments = append(segments, *current)
			}
			current = &PairingSegment{Index: len(segments)}
		}
		if current != nil {
			current.Lines = append(current.Lines, l)
		}
	}
	if current != nil {
		segments = append(segments, *current)
	}

	if len(segments) == 0 {
		return nil, &common.StructuralError{Reason: "no pairing anchors found"}
	}
	return segments, nil
}
