// Package pipeline coordinates the full parse: digest, cache lookup, text
// extraction, normalization, segmentation, parallel field extraction,
// assembly, and the write-through cache store.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crewtools/pairings-tracker/internal/assemble"
	"github.com/crewtools/pairings-tracker/internal/cache"
	"github.com/crewtools/pairings-tracker/internal/common"
	"github.com/crewtools/pairings-tracker/internal/entity"
	"github.com/crewtools/pairings-tracker/internal/extract"
	"github.com/crewtools/pairings-tracker/internal/normalize"
	"github.com/crewtools/pairings-tracker/internal/pairing"
	"github.com/crewtools/pairings-tracker/internal/segment"
)

// Normalizer cleans extracted page texts into the logical line stream.
type Normalizer interface {
	Normalize(pages []string) []normalize.RawLine
}

// Segmenter splits the line stream into per-pairing segments.
type Segmenter interface {
	Segment(lines []normalize.RawLine, docType entity.DocumentType) ([]segment.PairingSegment, error)
}

// FieldExtractor parses one segment into a record.
type FieldExtractor interface {
	Extract(seg segment.PairingSegment) (entity.PairingRecord, []entity.Warning, error)
}

// Assembler merges outcomes into the final result.
type Assembler interface {
	Assemble(docType entity.DocumentType, outcomes []assemble.Outcome) (entity.ParseResult, error)
}

// Request carries one upload: the raw document bytes and the type flag
// supplied with them.
type Request struct {
	Bytes   []byte
	DocType entity.DocumentType
}

// Processor runs the parse pipeline. Stage fields are interfaces so tests
// can count or stub invocations.
type Processor struct {
	Logger    *slog.Logger
	Text      extract.TextExtractor
	Norm      Normalizer
	Seg       Segmenter
	Fields    FieldExtractor
	Assembler Assembler
	Cache     cache.Store
	Workers   int
}

// NewProcessor wires the default stages from configuration. The text
// extractor and cache store are collaborators owned by the caller.
func NewProcessor(cfg *common.Config, text extract.TextExtractor, store cache.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Parser.Workers
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		Logger:    logger,
		Text:      text,
		Norm:      normalize.NewNormalizer(cfg.Parser.MinRepeatPages),
		Seg:       segment.NewSegmenter(),
		Fields:    pairing.NewExtractor(cfg.Parser, logger),
		Assembler: assemble.NewAssembler(cfg.Parser.MaxFailedRatio, logger),
		Cache:     store,
		Workers:   workers,
	}
}

// Process parses one document. On a cache hit the stored result is
// returned without touching any downstream stage. A failed cache write is
// logged and swallowed: the caller already holds the result.
func (p *Processor) Process(ctx context.Context, req Request) (entity.ParseResult, error) {
	if !req.DocType.Valid() {
		return entity.ParseResult{}, fmt.Errorf("%w: unknown document type %q", common.ErrInvalidInput, req.DocType)
	}

	runID := uuid.NewString()
	log := p.Logger.With("run_id", runID, "doc_type", req.DocType)

	digest := cache.DigestBytes(req.Bytes)
	log = log.With("digest", digest)

	if res, err := p.Cache.Lookup(ctx, digest); err == nil {
		log.Info("parse.cache.hit", "pairings", len(res.Pairings))
		return res, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn("parse.cache.lookup_failed", "error", err)
	}

	ext, err := p.Text.Extract(ctx, bytes.NewReader(req.Bytes))
	if err != nil {
		return entity.ParseResult{}, fmt.Errorf("extract text: %w", err)
	}
	if ext.Empty() {
		return entity.ParseResult{}, &common.StructuralError{Reason: "extraction produced no text"}
	}

	lines := p.Norm.Normalize(ext.Pages)
	segs, err := p.Seg.Segment(lines, req.DocType)
	if err != nil {
		return entity.ParseResult{}, err
	}
	log.Info("parse.segmented", "pages", len(ext.Pages), "lines", len(lines), "segments", len(segs))

	outcomes := p.extractAll(ctx, segs)

	res, err := p.Assembler.Assemble(req.DocType, outcomes)
	if err != nil {
		return entity.ParseResult{}, err
	}

	if err := p.Cache.Put(ctx, digest, res); err != nil {
		werr := &common.CacheWriteError{Digest: digest, Err: err}
		log.Warn("parse.cache.write_failed", "error", werr)
	}

	log.Info("parse.done", "pairings", len(res.Pairings), "warnings", len(res.Warnings))
	return res, nil
}

// extractAll runs field extraction across a worker pool. Segments share no
// state, so only the outcome slot ordering matters: results land at their
// segment index regardless of completion order.
func (p *Processor) extractAll(ctx context.Context, segs []segment.PairingSegment) []assemble.Outcome {
	outcomes := make([]assemble.Outcome, len(segs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i, seg := range segs {
		g.Go(func() error {
			rec, warns, err := p.Fields.Extract(seg)
			if err != nil {
				var ferr *common.FieldError
				if !errors.As(err, &ferr) {
					ferr = &common.FieldError{Segment: seg.Index, Missing: []string{err.Error()}, Raw: seg.Text()}
				}
				outcomes[i] = assemble.Outcome{Err: ferr}
				return nil
			}
			outcomes[i] = assemble.Outcome{Record: &rec, Warnings: warns}
			return nil
		})
	}
	// Workers never return errors; failures degrade to outcomes.
	_ = g.Wait()
	return outcomes
}
