package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/crewtools/pairings-tracker/internal/common"
)

// PdftotextExtractor shells out to poppler's pdftotext. It preserves the
// document layout, which the downstream line scanners depend on.
type PdftotextExtractor struct {
	cfg    common.ExtractConfig
	runner Runner
	log    *slog.Logger
}

func NewPdftotextExtractor(cfg common.ExtractConfig, logger *slog.Logger) *PdftotextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &PdftotextExtractor{cfg: cfg, runner: execRunner{log: logger}, log: logger}
}

func (e *PdftotextExtractor) Extract(ctx context.Context, r io.Reader) (Extraction, error) {
	tmp, err := os.CreateTemp("", "pairings-*.pdf")
	if err != nil {
		return Extraction{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.log.Warn("remove temp file", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return Extraction{}, fmt.Errorf("spool document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Extraction{}, fmt.Errorf("close temp file: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return Extraction{}, fmt.Errorf("pdftotext: %w (stderr: %s)", err, truncate(string(errb), 512))
	}

	pages := splitPages(string(out))
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	return Extraction{Pages: pages, Method: "pdftotext"}, nil
}
