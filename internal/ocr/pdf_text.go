package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/textnorm"
)

// extractPDF tries pdftotext, then the pdfcpu content stream reader, then OCR
// when enabled. The first strategy that yields non-blank text wins.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.PDF}
	var reasons []string

	txt, pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	res.Method = MethodPDFText
	if err != nil {
		reasons = append(reasons, "pdftotext: "+err.Error())
		e.logger.Warn("pdftotext failed, reading content streams", "path", path, "error", err)
	}

	if strings.TrimSpace(txt) == "" {
		st, sp, serr := streamText(path)
		switch {
		case serr != nil:
			reasons = append(reasons, "pdf-stream: "+serr.Error())
		default:
			txt, pages, res.Method = st, sp, MethodPDFStream
		}
	}

	var ocrConf float32
	if strings.TrimSpace(txt) == "" && e.cfg.EnableOCR {
		ot, op, oc, ow, oerr := e.pdfToOCR(ctx, path)
		res.Warnings = append(res.Warnings, ow...)
		if oerr != nil {
			reasons = append(reasons, "ocr: "+oerr.Error())
		} else {
			txt, pages, res.Method = textnorm.CleanOCR(ot), op, MethodPDFOCR
			ocrConf = oc
			res.Language = e.cfg.TesseractLang
		}
	}

	res.Pages = pages
	if strings.TrimSpace(txt) == "" {
		if len(reasons) == 0 {
			reasons = append(reasons, "no text layer")
		}
		return res, fmt.Errorf("%w: %s", common.ErrNoText, strings.Join(reasons, "; "))
	}
	res.Text = txt
	res.Confidence = blendConfidence(ocrConf, heuristicConfidence(txt))
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, stderrWarning(errb), err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(strings.TrimRight(text, "\f\n"), "\f")
	return text, pages, nil, nil
}

// streamText reads text-showing operators straight from the page content
// streams. It knows nothing about font encodings, so it only helps with
// simple single-byte fonts.
func streamText(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", 0, fmt.Errorf("pdfcpu read: %w", err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		if t := contentText(data); t != "" {
			if b.Len() > 0 {
				b.WriteString("\n\f\n")
			}
			b.WriteString(t)
		}
	}
	if b.Len() == 0 {
		return "", pdfCtx.PageCount, errors.New("no text operators found")
	}
	return b.String(), pdfCtx.PageCount, nil
}
