package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

type stubRunner struct {
	fn    func(name string, args []string) ([]byte, []byte, error)
	calls []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	return s.fn(name, args)
}

var errMissing = errors.New("executable file not found")

// buildTextPDF writes a one-page PDF whose content stream shows each line
// with its own Td move.
func buildTextPDF(lines ...string) []byte {
	var stream strings.Builder
	stream.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, ln := range lines {
		ln = strings.ReplaceAll(ln, `\`, `\\`)
		ln = strings.ReplaceAll(ln, "(", `\(`)
		ln = strings.ReplaceAll(ln, ")", `\)`)
		if i > 0 {
			stream.WriteString("0 -14 Td\n")
		}
		stream.WriteString("(" + ln + ") Tj\n")
	}
	stream.WriteString("ET")

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	offsets[4] = b.Len()
	fmt.Fprintf(&b, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", stream.Len(), stream.String())
	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return []byte(b.String())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExtractPlainText(t *testing.T) {
	p := writeFile(t, "note.txt", []byte("Invoice No: INV-1\nTotal: 10.00 EUR\n"))
	res, err := NewExtractor(Config{}, nil).Extract(context.Background(), p)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodPlainText || res.Pages != 1 {
		t.Errorf("method=%s pages=%d", res.Method, res.Pages)
	}
	if !strings.Contains(res.Text, "INV-1") {
		t.Errorf("text = %q", res.Text)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "photo.jpg", []byte{0xff, 0xd8})
	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), p)
	if !errors.Is(err, common.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestExtractPDFWithPdftotext(t *testing.T) {
	p := writeFile(t, "doc.pdf", buildTextPDF("ignored"))
	r := &stubRunner{fn: func(name string, args []string) ([]byte, []byte, error) {
		if name != "pdftotext" {
			t.Fatalf("unexpected command %s", name)
		}
		if args[len(args)-2] != p || args[len(args)-1] != "-" {
			t.Fatalf("args = %v", args)
		}
		return []byte("page one\fpage two\f"), nil, nil
	}}
	res, err := NewExtractor(Config{}, nil).WithRunner(r).Extract(context.Background(), p)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodPDFText || res.Pages != 2 {
		t.Errorf("method=%s pages=%d", res.Method, res.Pages)
	}
}

func TestExtractPDFFallsBackToContentStream(t *testing.T) {
	p := writeFile(t, "doc.pdf", buildTextPDF("INVOICE", "Invoice No: INV-12345"))
	r := &stubRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("pdftotext: not found"), errMissing
	}}
	res, err := NewExtractor(Config{}, nil).WithRunner(r).Extract(context.Background(), p)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodPDFStream {
		t.Errorf("method = %s", res.Method)
	}
	if res.Text != "INVOICE\nInvoice No: INV-12345" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Warnings) == 0 {
		t.Errorf("expected pdftotext stderr in warnings")
	}
}

func TestExtractPDFOCR(t *testing.T) {
	p := writeFile(t, "scan.pdf", buildTextPDF())
	r := &stubRunner{fn: func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftotext":
			return []byte("  \n\f"), nil, nil
		case "pdftoppm":
			prefix := args[len(args)-1]
			for _, n := range []string{"-1.png", "-2.png"} {
				if err := os.WriteFile(prefix+n, []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		case "tesseract":
			if args[len(args)-1] == "tsv" {
				return []byte("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
					"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tPASSPORT\n"), nil, nil
			}
			return []byte("PASSPORT\nSurname: DOE\n"), nil, nil
		}
		return nil, nil, errMissing
	}}
	cfg := Config{EnableOCR: true, EnableTSVConfidence: true, MaxPages: 5}
	res, err := NewExtractor(cfg, nil).WithRunner(r).Extract(context.Background(), p)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodPDFOCR || res.Pages != 2 || res.Language != "eng" {
		t.Errorf("method=%s pages=%d lang=%s", res.Method, res.Pages, res.Language)
	}
	if strings.Count(res.Text, "Surname: DOE") != 2 {
		t.Errorf("text = %q", res.Text)
	}
	if res.Confidence <= heuristicConfidence(res.Text) {
		t.Errorf("tesseract confidence not blended: %v", res.Confidence)
	}
}

func TestExtractPDFNoText(t *testing.T) {
	p := writeFile(t, "scan.pdf", buildTextPDF())
	r := &stubRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return []byte("\f"), nil, nil
	}}
	_, err := NewExtractor(Config{}, nil).WithRunner(r).Extract(context.Background(), p)
	if !errors.Is(err, common.ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
	for _, c := range r.calls {
		if c == "pdftoppm" || c == "tesseract" {
			t.Errorf("OCR ran while disabled: %v", r.calls)
		}
	}
}

func TestExtractTruncatesToMaxBytes(t *testing.T) {
	p := writeFile(t, "big.txt", []byte(strings.Repeat("é", 10)))
	res, err := NewExtractor(Config{MaxBytes: 5}, nil).Extract(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "éé" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestContentText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{"tj and td", "BT /F1 12 Tf 72 720 Td (Hello) Tj 0 -14 Td (World) Tj ET", "Hello\nWorld"},
		{"escapes", `BT (a\(b\)c \\ \101) Tj ET`, `a(b)c \ A`},
		{"tj array kerning", "BT [(Flight)-300(YL)20(801)] TJ ET", "Flight YL801"},
		{"quote operator", "BT (one) Tj (two) ' ET", "one\ntwo"},
		{"hex string", "BT <48656C6C6F> Tj ET", "Hello"},
		{"utf16", "BT <FEFF00C4006D> Tj ET", "Äm"},
		{"winansi", "BT <80> Tj ET", "€"},
		{"dict operand", "/P << /MCID 0 >> BDC BT (x) Tj ET EMC", "x"},
		{"inline image", "BI /W 1 /H 1 ID \x00(\xff EI BT (after) Tj ET", "after"},
		{"comment", "% (skip) Tj\nBT (kept) Tj ET", "kept"},
		{"no text", "q 1 0 0 1 0 0 cm Q", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contentText([]byte(tt.stream)); got != tt.want {
				t.Errorf("contentText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMeanTSVConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t80\tfoo\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t60\tbar\n"
	if got := meanTSVConfidence(tsv); got < 0.69 || got > 0.71 {
		t.Errorf("meanTSVConfidence = %v, want 0.7", got)
	}
	if got := meanTSVConfidence(""); got != 0 {
		t.Errorf("empty = %v", got)
	}
}
