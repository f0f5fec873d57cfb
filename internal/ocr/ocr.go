// Package ocr turns documents into plain text: embedded PDF text first, a
// pure-Go content stream reader when poppler is missing, and tesseract OCR
// for scans.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

// Extraction methods reported in ExtractionResult.Method.
const (
	MethodPlainText = "plain-text"
	MethodPDFText   = "pdf-text"
	MethodPDFStream = "pdf-stream"
	MethodPDFOCR    = "pdf-ocr"
)

const defaultMaxBytes = 5 << 20

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	EnableOCR     bool   // rasterize and OCR PDFs without a text layer
	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
	MaxBytes      int // text is truncated beyond this size, default 5 MiB

	EnableTSVConfidence bool
	PSM                 int // e.g., 6 is good for uniform block of text
	OEM                 int // 1 = LSTM; leave 0 to use default
}

// ConfigFrom maps the application OCR settings onto an extractor config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		EnableOCR:     c.Enabled,
		TesseractLang: c.Lang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
		MaxBytes:      c.MaxBytes,
	}
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TEXT
	Method     string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, mainly for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension. A PDF that yields no text
// returns the (empty) result together with an error wrapping common.ErrNoText.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.TEXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported extension", "path", path, "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", common.ErrUnsupported, ext)
	}
	res.Text = e.bound(res.Text, &res.Warnings)
	res.Duration = time.Since(start)
	if err == nil {
		e.logger.Debug("text extracted", "path", path, "method", res.Method, "pages", res.Pages,
			"chars", utf8.RuneCountInString(res.Text), "duration_ms", res.Duration.Milliseconds())
	}
	return res, err
}

func (e *Extractor) extractPlain(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.TEXT}, err
	}
	txt := strings.ToValidUTF8(string(b), "")
	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.TEXT,
		Method:     MethodPlainText,
		Confidence: heuristicConfidence(txt),
	}, nil
}

// bound truncates text to MaxBytes on a rune boundary.
func (e *Extractor) bound(txt string, warnings *[]string) string {
	if len(txt) <= e.cfg.MaxBytes {
		return txt
	}
	cut := e.cfg.MaxBytes
	for cut > 0 && !utf8.RuneStart(txt[cut]) {
		cut--
	}
	*warnings = append(*warnings, fmt.Sprintf("text truncated to %d bytes", cut))
	return txt[:cut]
}
