package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
	"github.com/IbrahimShadi/pdf-analyzer/internal/repository"
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

const invoiceText = "Invoice Number: INV-789\nBill To:\nMega Corp GmbH\nSome Street 1\n12345 City\nInvoice Date: 12/08/2025\nGrand Total: € 2.345,67\n"

func startServer(t *testing.T, withStore bool) *Client {
	t.Helper()
	set, err := rules.Parse([]byte("invoice:\n  keywords: [invoice]\n"))
	if err != nil {
		t.Fatal(err)
	}
	a := analyzer.New(nil, ocr.NewExtractor(ocr.Config{}, nil), set, analyzer.Options{})

	var repo repository.ResultRepository
	if withStore {
		db, err := repository.Open(context.Background(), repository.Config{DSN: filepath.Join(t.TempDir(), "r.db")}, nil)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(db.Close)
		repo = repository.NewResultRepository(db, nil)
	}

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(NewAnalysisService(a, repo, nil), nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAnalyzeTextOverGRPC(t *testing.T) {
	c := startServer(t, true)
	ctx := context.Background()

	res, err := c.AnalyzeText(ctx, "", invoiceText)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if res.TopClass != "invoice" {
		t.Fatalf("TopClass = %s (%v)", res.TopClass, res.Probabilities)
	}
	inv, ok := res.Extracted.(*extract.InvoiceFields)
	if !ok || inv.InvoiceNumber == nil || *inv.InvoiceNumber != "INV-789" {
		t.Errorf("Extracted = %#v", res.Extracted)
	}

	got, err := c.GetResult(ctx, res.ID.String())
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.ID != res.ID {
		t.Errorf("GetResult id = %s", got.ID)
	}

	list, err := c.ListResults(ctx, ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(list) != 1 || list[0].ID != res.ID {
		t.Errorf("ListResults = %v", list)
	}
}

func TestAnalyzeFileOverGRPC(t *testing.T) {
	c := startServer(t, false)
	p := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(p, []byte(invoiceText), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := c.AnalyzeFile(context.Background(), p)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.TopClass != "invoice" || res.Method != ocr.MethodPlainText {
		t.Errorf("got %s via %s", res.TopClass, res.Method)
	}

	_, err = c.AnalyzeFile(context.Background(), "")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("empty path: %v", err)
	}
}

func TestClassifyOverGRPC(t *testing.T) {
	c := startServer(t, false)
	cls, err := c.Classify(context.Background(), "nothing to see here")
	if err != nil {
		t.Fatal(err)
	}
	if cls.TopClass != "invoice" || cls.Confidence != 0.25 || len(cls.Probabilities) != 4 {
		t.Errorf("Classify = %+v", cls)
	}
}

func TestStoreErrors(t *testing.T) {
	c := startServer(t, false)
	_, err := c.ListResults(context.Background(), ListFilter{})
	if status.Code(err) != codes.Unavailable {
		t.Errorf("ListResults without store: %v", err)
	}

	c = startServer(t, true)
	tests := []struct {
		name string
		id   string
		code codes.Code
	}{
		{"bad id", "nope", codes.InvalidArgument},
		{"missing", "6f1c1b8e-1d2a-4c1e-9a51-0c8f3b3f9d10", codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetResult(context.Background(), tt.id)
			if status.Code(err) != tt.code {
				t.Errorf("code = %v, want %v (%v)", status.Code(err), tt.code, err)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	c := startServer(t, false)
	resp, err := healthpb.NewHealthClient(c.Conn()).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v", resp.GetStatus())
	}
}
