package main

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
	"github.com/IbrahimShadi/pdf-analyzer/internal/repository"
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

// addAnalyzerFlags binds the flags shared by analyze and watch.
func addAnalyzerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.Analyzer.RulesPath, "rules", cfg.Analyzer.RulesPath, "YAML rules file (default: embedded rules)")
	f.Float64Var(&cfg.Analyzer.MinConfidence, "min-confidence", cfg.Analyzer.MinConfidence, "minimum probability to accept the top class")
	f.Float64Var(&cfg.Analyzer.Temperature, "temperature", cfg.Analyzer.Temperature, "softmax temperature when the rules configure none")
	f.BoolVar(&cfg.Analyzer.Rename, "rename", cfg.Analyzer.Rename, "rename classified files to their canonical name")
	f.StringVar(&cfg.Analyzer.DestDir, "dest", cfg.Analyzer.DestDir, "move renamed files into this directory")
	f.Bool("no-fuzzy", !cfg.Analyzer.Fuzzy, "disable fuzzy keyword matching")

	f.BoolVar(&cfg.OCR.Enabled, "ocr", cfg.OCR.Enabled, "OCR PDFs without a text layer")
	f.StringVar(&cfg.OCR.Lang, "lang", cfg.OCR.Lang, "tesseract language")

	f.IntVar(&cfg.Batch.Workers, "workers", cfg.Batch.Workers, "parallel documents")
	f.DurationVar(&cfg.Batch.Timeout, "timeout", cfg.Batch.Timeout, "per-document timeout")
	f.StringVar(&cfg.Store.DSN, "store", cfg.Store.DSN, "save results to this database (sqlite file or postgres URL)")
	f.StringVar(&cfg.Store.Driver, "store-driver", cfg.Store.Driver, "result store driver: sqlite|pgx")
}

// newAnalyzer validates the merged configuration and wires the analyzer.
func newAnalyzer(cmd *cobra.Command) (*analyzer.Analyzer, error) {
	if noFuzzy, err := cmd.Flags().GetBool("no-fuzzy"); err == nil {
		cfg.Analyzer.Fuzzy = !noFuzzy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := rules.LoadOrDefault(cfg.Analyzer.RulesPath)
	if err != nil {
		return nil, err
	}
	for _, p := range set.InvalidPatterns() {
		logger.Warn("invalid regex ignored", "pattern", p)
	}

	extractor := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	return analyzer.New(logger, extractor, set, analyzer.OptionsFrom(cfg.Analyzer)), nil
}

// openStore returns a nil repository when no store is configured.
func openStore(ctx context.Context) (repository.ResultRepository, func(), error) {
	if cfg.Store.DSN == "" {
		return nil, func() {}, nil
	}
	db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Store), logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewResultRepository(db, logger), db.Close, nil
}

// resultWriter prints one JSON line per result. Safe for concurrent use.
type resultWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newResultWriter(w io.Writer) *resultWriter {
	return &resultWriter{enc: json.NewEncoder(w)}
}

func (w *resultWriter) write(r analyzer.Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(r); err != nil {
		logger.Error("failed to write result", "path", r.PathIn, "error", err)
	}
}
