package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// pdfToOCR rasterizes every page with pdftoppm and runs tesseract on each
// image. conf is the mean tesseract word confidence when TSV confidence is
// enabled, 0 otherwise.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, conf float32, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "pdfa-pp-*")
	if err != nil {
		return "", 0, 0, nil, err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	// pdftoppm -r 300 -png [-l N] <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, append(args, path, prefix)...)
	if err != nil {
		return "", 0, 0, stderrWarning(errb), fmt.Errorf("pdftoppm: %w", err)
	}

	// prefix-1.png, prefix-2.png, ... (zero padded for larger documents)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var (
		b        strings.Builder
		confSum  float32
		confSeen int
	)
	for _, img := range matches {
		if err := ctx.Err(); err != nil {
			return "", 0, 0, warnings, err
		}
		txt, w, err := e.tesseractOCR(ctx, img)
		warnings = append(warnings, w...)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)

		if e.cfg.EnableTSVConfidence {
			c, w, err := e.tesseractTSVConfidence(ctx, img)
			warnings = append(warnings, w...)
			if err == nil && c > 0 {
				confSum += c
				confSeen++
			}
		}
	}
	if confSeen > 0 {
		conf = confSum / float32(confSeen)
	}
	return b.String(), len(matches), conf, warnings, nil
}

func stderrWarning(b []byte) []string {
	if s := strings.TrimSpace(string(b)); s != "" {
		return []string{s}
	}
	return nil
}
