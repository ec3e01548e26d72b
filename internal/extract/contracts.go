package extract

import (
	"context"
	"io"
	"strings"
)

// Extraction is page-ordered raw text pulled out of a document.
type Extraction struct {
	Pages  []string
	Method string
}

// Empty reports whether no page carries any non-blank text.
func (e Extraction) Empty() bool {
	for _, p := range e.Pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// TextExtractor is the boundary to the text-extraction collaborator:
// document bytes in, page-ordered text out. Implementations enforce their
// own size and time limits.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (Extraction, error)
}

// splitPages breaks extracted text on form-feed page separators.
func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
