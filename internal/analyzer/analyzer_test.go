package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

const invoiceText = "Invoice Number: INV-789\nBill To:\nMega Corp GmbH\nSome Street 1\n12345 City\nInvoice Date: 12/08/2025\nGrand Total: € 2.345,67\n"

type stubLoader struct {
	text string
	err  error
}

func (s stubLoader) Extract(context.Context, string) (ocr.ExtractionResult, error) {
	return ocr.ExtractionResult{Text: s.text, Method: ocr.MethodPDFText}, s.err
}

func invoiceRules(t *testing.T) *rules.Set {
	t.Helper()
	set, err := rules.Parse([]byte("invoice:\n  keywords: [invoice]\n"))
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAnalyzeFileRenamesAboveThreshold(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "scan001.pdf")
	dest := filepath.Join(dir, "sorted")

	a := New(nil, stubLoader{text: invoiceText}, invoiceRules(t), Options{MinConfidence: 0.6, Rename: true, DestDir: dest})
	res := a.AnalyzeFile(context.Background(), src)

	if res.TopClass != string(constants.Invoice) {
		t.Fatalf("TopClass = %s (%v)", res.TopClass, res.Probabilities)
	}
	if res.Status != constants.StatusRenamed {
		t.Errorf("Status = %s, errors = %v", res.Status, res.Errors)
	}
	want := filepath.Join(dest, "Inv_INV-789_Mega Corp GmbH_2345.67_2025-08-12.pdf")
	if res.PathOut == nil || *res.PathOut != want {
		t.Fatalf("PathOut = %v, want %s", res.PathOut, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	inv, ok := res.Extracted.(*extract.InvoiceFields)
	if !ok || inv.InvoiceNumber == nil || *inv.InvoiceNumber != "INV-789" {
		t.Errorf("Extracted = %#v", res.Extracted)
	}
	if res.Method != ocr.MethodPDFText || res.RunID == "" {
		t.Errorf("method=%q run=%q", res.Method, res.RunID)
	}
}

func TestAnalyzeBelowThresholdIsOther(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "scan.pdf")

	a := New(nil, nil, invoiceRules(t), Options{MinConfidence: 0.9, Rename: true})
	res := a.AnalyzeText(context.Background(), src, invoiceText, nil)

	if res.TopClass != string(constants.Other) {
		t.Errorf("TopClass = %s", res.TopClass)
	}
	if res.Confidence < 0.7 || res.Confidence > 0.72 {
		t.Errorf("Confidence = %v, want the invoice probability", res.Confidence)
	}
	if res.Extracted != nil || res.PathOut != nil {
		t.Errorf("sub-threshold result carries fields or path: %+v", res)
	}
	if res.Status != constants.StatusBelowThreshold {
		t.Errorf("Status = %s", res.Status)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source moved: %v", err)
	}
}

func TestAnalyzeZeroThresholdAlwaysExtracts(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		class  string
		status constants.AnalysisStatus
	}{
		{"zero threshold", Options{MinConfidence: 0}, string(constants.Invoice), constants.StatusClassified},
		{"defaults", DefaultOptions(), string(constants.Other), constants.StatusBelowThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(nil, nil, invoiceRules(t), tt.opts)
			res := a.AnalyzeText(context.Background(), "", "invoice flight", nil)
			if res.TopClass != tt.class || res.Status != tt.status {
				t.Fatalf("got %s/%s (%v), want %s/%s", res.TopClass, res.Status, res.Confidence, tt.class, tt.status)
			}
			if (tt.class == string(constants.Invoice)) != (res.Extracted != nil) {
				t.Errorf("Extracted = %#v", res.Extracted)
			}
		})
	}
}

func TestAnalyzeNoRenameLeavesFile(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "scan.pdf")
	a := New(nil, nil, invoiceRules(t), Options{})
	res := a.AnalyzeText(context.Background(), src, invoiceText, nil)
	if res.Status != constants.StatusClassified || res.PathOut != nil || res.Extracted == nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAnalyzeFileLoadError(t *testing.T) {
	loadErr := fmt.Errorf("%w: pdftotext: exit status 1", common.ErrNoText)
	a := New(nil, stubLoader{err: loadErr}, invoiceRules(t), Options{})
	res := a.AnalyzeFile(context.Background(), "/nowhere/x.pdf")

	if res.Status != constants.StatusFailed {
		t.Errorf("Status = %s", res.Status)
	}
	if res.TopClass != string(constants.Other) || res.Confidence != 0.25 {
		t.Errorf("got %s %v, want other 0.25", res.TopClass, res.Confidence)
	}
	if res.Extracted != nil {
		t.Errorf("failed load extracted %#v", res.Extracted)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "no text") {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestAnalyzeRenameErrorIsRecorded(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "scan.pdf")
	blocker := touch(t, dir, "not-a-dir")

	a := New(nil, nil, invoiceRules(t), Options{Rename: true, DestDir: filepath.Join(blocker, "sub")})
	res := a.AnalyzeText(context.Background(), src, invoiceText, nil)

	if res.PathOut != nil {
		t.Errorf("PathOut = %s", *res.PathOut)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "rename_error: ") {
		t.Errorf("Errors = %v", res.Errors)
	}
	if res.Extracted == nil {
		t.Error("fields dropped on rename failure")
	}
}

func TestAnalyzeUsesRunIDFromContext(t *testing.T) {
	a := New(nil, nil, invoiceRules(t), Options{})
	ctx := common.WithRunID(context.Background(), "01JRUN")
	if got := a.AnalyzeText(ctx, "", "x", nil).RunID; got != "01JRUN" {
		t.Errorf("RunID = %s", got)
	}
}

func TestResultJSON(t *testing.T) {
	a := New(nil, nil, invoiceRules(t), Options{})
	res := a.AnalyzeText(context.Background(), "in.pdf", invoiceText, errors.New("first"))
	res.Errors = append(res.Errors, "rename_error: boom")

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["errors"] != "first | rename_error: boom" {
		t.Errorf("errors = %v", raw["errors"])
	}
	if raw["path_out"] != nil {
		t.Errorf("path_out = %v", raw["path_out"])
	}
	conf := raw["confidence"].(float64)
	if conf != Round4(conf) {
		t.Errorf("confidence not rounded: %v", conf)
	}
	ex, ok := raw["extracted"].(map[string]any)
	if !ok || ex["invoice_number"] != "INV-789" || ex["currency"] != "EUR" {
		t.Errorf("extracted = %v", raw["extracted"])
	}

	var back Result
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != res.ID || back.TopClass != res.TopClass || len(back.Errors) != 2 {
		t.Errorf("round trip lost data: %+v", back)
	}
	if _, ok := back.Extracted.(*extract.InvoiceFields); !ok {
		t.Errorf("Extracted type = %T", back.Extracted)
	}

	res.Errors = nil
	res.Extracted = nil
	b, _ = json.Marshal(res)
	if !strings.Contains(string(b), `"errors":null`) || !strings.Contains(string(b), `"extracted":null`) {
		t.Errorf("absent values should be null: %s", b)
	}
}

func TestRound4(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.71094, 0.7109},
		{0.123456, 0.1235},
		{1, 1},
		{0.25, 0.25},
	}
	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
