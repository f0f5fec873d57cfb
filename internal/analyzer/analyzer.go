// Package analyzer runs one document through classification, field
// extraction, filename building and the optional rename.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/classifier"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
	"github.com/IbrahimShadi/pdf-analyzer/internal/naming"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

const (
	defaultMinConfidence = 0.6
	defaultTemperature   = 1.0
)

// TextExtractor loads the text of a document on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// Options tune a single analysis. The zero value accepts every top class;
// start from DefaultOptions for the usual threshold.
type Options struct {
	MinConfidence float64 // 0 keeps every top class
	Temperature   float64 // used when the rules configure no temperature
	Fuzzy         bool
	Rename        bool
	DestDir       string // empty = next to the source file
}

// DefaultOptions returns the thresholds used when nothing is configured.
func DefaultOptions() Options {
	return Options{MinConfidence: defaultMinConfidence, Temperature: defaultTemperature, Fuzzy: true}
}

// OptionsFrom maps the application settings onto analyzer options.
func OptionsFrom(c common.AnalyzerConfig) Options {
	return Options{
		MinConfidence: c.MinConfidence,
		Temperature:   c.Temperature,
		Fuzzy:         c.Fuzzy,
		Rename:        c.Rename,
		DestDir:       c.DestDir,
	}
}

// Analyzer coordinates text loading, classification and extraction.
type Analyzer struct {
	logger     *slog.Logger
	loader     TextExtractor
	rules      *rules.Set
	classifier *classifier.Classifier
	opts       Options
}

func New(logger *slog.Logger, loader TextExtractor, set *rules.Set, opts Options) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}
	var fuzzy classifier.FuzzyMatcher = classifier.NoFuzzy{}
	if opts.Fuzzy {
		fuzzy = classifier.DefaultFuzzy()
	}
	return &Analyzer{
		logger:     logger,
		loader:     loader,
		rules:      set,
		classifier: classifier.New(fuzzy),
		opts:       opts,
	}
}

// Rules returns the rule set the analyzer classifies with.
func (a *Analyzer) Rules() *rules.Set { return a.rules }

// Classify scores text without extracting fields.
func (a *Analyzer) Classify(text string) classifier.Classification {
	return a.classifier.Classify(text, a.rules, a.opts.Temperature)
}

// AnalyzeFile loads the document text and analyzes it. A load failure is
// recorded in the result and the (empty) text is still classified.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) Result {
	start := time.Now()
	if a.loader == nil {
		return a.analyze(ctx, path, "", "", fmt.Errorf("%w: no text extractor configured", common.ErrInternal), start)
	}
	res, err := a.loader.Extract(ctx, path)
	if err != nil {
		common.LoggerFromContext(ctx, a.logger).Warn("text load failed", "path", path, "error", err)
	}
	return a.analyze(ctx, path, res.Text, res.Method, err, start)
}

// AnalyzeText analyzes already extracted text. path names the source file
// for renaming; loadErr, when set, is carried into the result errors.
func (a *Analyzer) AnalyzeText(ctx context.Context, path, text string, loadErr error) Result {
	return a.analyze(ctx, path, text, "", loadErr, time.Now())
}

func (a *Analyzer) analyze(ctx context.Context, path, text, method string, loadErr error, start time.Time) Result {
	logger := common.LoggerFromContext(ctx, a.logger)

	res := Result{
		ID:         uuid.New(),
		RunID:      common.RunIDFromContext(ctx),
		PathIn:     path,
		Method:     method,
		AnalyzedAt: time.Now().UTC(),
	}
	if res.RunID == "" {
		res.RunID = ulid.Make().String()
	}
	if loadErr != nil {
		res.Errors = append(res.Errors, loadErr.Error())
	}

	cls := a.Classify(text)
	res.Probabilities = cls.Probabilities
	res.Confidence = cls.Confidence
	res.TopClass = cls.TopClass

	switch {
	case loadErr != nil && text == "":
		res.TopClass = string(constants.Other)
		res.Status = constants.StatusFailed
	case cls.Confidence < a.opts.MinConfidence:
		res.TopClass = string(constants.Other)
		res.Status = constants.StatusBelowThreshold
	default:
		res.Status = constants.StatusClassified
		res.Extracted = extract.For(constants.DocType(cls.TopClass), text)
	}

	if res.Extracted != nil && a.opts.Rename && path != "" {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = constants.DefaultExtension
		}
		newName := naming.BuildFilename(res.Extracted, ext)
		out, err := naming.Rename(path, a.opts.DestDir, newName)
		if err != nil {
			logger.Error("rename failed", "path", path, "target", newName, "error", err)
			res.Errors = append(res.Errors, "rename_error: "+err.Error())
		} else {
			res.PathOut = &out
			res.Status = constants.StatusRenamed
		}
	}

	res.Duration = time.Since(start)
	logger.Info("document analyzed",
		"path", path,
		"run_id", res.RunID,
		"top_class", res.TopClass,
		"confidence", res.Confidence,
		"status", res.Status,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}
