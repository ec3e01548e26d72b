package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/crewtools/pairings-tracker/internal/cache"
	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/export"
	"github.com/crewtools/pairings-tracker/internal/extract"
	"github.com/crewtools/pairings-tracker/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in      = flag.String("in", "", "pairing document to parse (required)")
		out     = flag.String("out", "", "output XLSX file path (defaults next to the input)")
		docType = flag.String("type", "final", "document type: final or prelim")
		engine  = flag.String("engine", "auto", "text extraction engine: auto, pdftotext, pdf, or text")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
		os.Exit(1)
	}
	if *out == "" {
		base := strings.TrimSuffix(*in, filepath.Ext(*in))
		*out = base + ".xlsx"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := cache.NewSQLiteStore(cfg.Cache.Dir, logger)
	if err != nil {
		logger.Error("failed to open cache store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache store", "error", err)
		}
	}()

	text, err := pickExtractor(*engine, *in, cfg, logger)
	if err != nil {
		logger.Error("failed to pick extraction engine", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		logger.Error("failed to read document", "path", *in, "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(cfg, text, store, logger)
	res, err := proc.Process(ctx, pipeline.Request{
		Bytes:   data,
		DocType: entity.DocumentType(*docType),
	})
	if err != nil {
		logger.Error("parse failed", "path", *in, "error", err)
		os.Exit(1)
	}

	xlsxBytes, err := export.NewService(logger).WriteXLSX(res)
	if err != nil {
		logger.Error("failed to export workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d pairings to %s\n", len(res.Pairings), *out)
}

// pickExtractor resolves the extraction engine, by file extension when set
// to auto: PDFs prefer pdftotext, falling back to the pure-Go reader when
// the binary is not on PATH.
func pickExtractor(engine, path string, cfg *common.Config, logger *slog.Logger) (extract.TextExtractor, error) {
	if engine == "auto" {
		switch {
		case !strings.EqualFold(filepath.Ext(path), ".pdf"):
			engine = "text"
		default:
			if _, err := exec.LookPath(cfg.Extract.Pdftotext); err == nil {
				engine = "pdftotext"
			} else {
				engine = "pdf"
			}
		}
	}
	switch engine {
	case "pdftotext":
		return extract.NewPdftotextExtractor(cfg.Extract, logger), nil
	case "pdf":
		return extract.NewPDFExtractor(cfg.Extract), nil
	case "text":
		return extract.NewPlainTextExtractor(), nil
	}
	return nil, fmt.Errorf("unknown engine %q", engine)
}
