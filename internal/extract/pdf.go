package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/crewtools/pairings-tracker/internal/common"
)

// PDFExtractor reads PDF text in pure Go. Used when no pdftotext binary is
// available; it loses column layout, so pdftotext is preferred for packets
// with tabular legs.
type PDFExtractor struct {
	cfg common.ExtractConfig
}

func NewPDFExtractor(cfg common.ExtractConfig) *PDFExtractor {
	return &PDFExtractor{cfg: cfg}
}

func (e *PDFExtractor) Extract(ctx context.Context, r io.Reader) (Extraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Extraction{}, fmt.Errorf("read document: %w", err)
	}

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("open pdf: %w", err)
	}

	n := doc.NumPage()
	if e.cfg.MaxPages > 0 && n > e.cfg.MaxPages {
		n = e.cfg.MaxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Extraction{}, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Extraction{}, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return Extraction{Pages: pages, Method: "pdf"}, nil
}
