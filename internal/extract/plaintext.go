package extract

import (
	"context"
	"fmt"
	"io"
)

// PlainTextExtractor passes through pre-extracted text. Pages are separated
// by form-feed, matching pdftotext output.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (PlainTextExtractor) Extract(ctx context.Context, r io.Reader) (Extraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Extraction{}, fmt.Errorf("read document: %w", err)
	}
	return Extraction{Pages: splitPages(string(data)), Method: "plaintext"}, nil
}
