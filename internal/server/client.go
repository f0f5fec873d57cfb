package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
)

// Client calls a remote pdfanalyzer.v1.Analyzer service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr. Without options the connection is plaintext.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// Conn exposes the connection, e.g. for health checks.
func (c *Client) Conn() *grpc.ClientConn { return c.conn }

func (c *Client) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) result(ctx context.Context, method string, req map[string]any) (analyzer.Result, error) {
	out, err := c.call(ctx, method, req)
	if err != nil {
		return analyzer.Result{}, err
	}
	var res analyzer.Result
	if err := fromStruct(out, &res); err != nil {
		return analyzer.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

func (c *Client) AnalyzeText(ctx context.Context, path, text string) (analyzer.Result, error) {
	return c.result(ctx, MethodAnalyzeText, map[string]any{"path": path, "text": text})
}

// AnalyzeFile asks the server to analyze a path on its own filesystem.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (analyzer.Result, error) {
	return c.result(ctx, MethodAnalyzeFile, map[string]any{"path": path})
}

func (c *Client) GetResult(ctx context.Context, id string) (analyzer.Result, error) {
	return c.result(ctx, MethodGetResult, map[string]any{"id": id})
}

// Classification is the remote Classify answer, rounded to 4 decimals.
type Classification struct {
	TopClass      string             `json:"top_class"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

func (c *Client) Classify(ctx context.Context, text string) (Classification, error) {
	out, err := c.call(ctx, MethodClassify, map[string]any{"text": text})
	if err != nil {
		return Classification{}, err
	}
	var cls Classification
	if err := fromStruct(out, &cls); err != nil {
		return Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	return cls, nil
}

// ListFilter mirrors repository.ListFilter on the wire.
type ListFilter struct {
	Limit    int
	TopClass string
	RunID    string
}

func (c *Client) ListResults(ctx context.Context, f ListFilter) ([]analyzer.Result, error) {
	out, err := c.call(ctx, MethodListResults, map[string]any{
		"limit":     f.Limit,
		"top_class": f.TopClass,
		"run_id":    f.RunID,
	})
	if err != nil {
		return nil, err
	}
	var body struct {
		Results []analyzer.Result `json:"results"`
	}
	if err := fromStruct(out, &body); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return body.Results, nil
}
