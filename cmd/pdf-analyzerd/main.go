package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
	"github.com/IbrahimShadi/pdf-analyzer/internal/repository"
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
	"github.com/IbrahimShadi/pdf-analyzer/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	set, err := rules.LoadOrDefault(cfg.Analyzer.RulesPath)
	if err != nil {
		logger.Error("failed to load rules", "path", cfg.Analyzer.RulesPath, "error", err)
		os.Exit(1)
	}
	for _, p := range set.InvalidPatterns() {
		logger.Warn("invalid regex ignored", "pattern", p)
	}
	a := analyzer.New(logger, ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger), set, analyzer.OptionsFrom(cfg.Analyzer))

	// Result store is optional; without it GetResult/ListResults answer Unavailable.
	var results repository.ResultRepository
	if cfg.Store.DSN != "" {
		db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Store), logger)
		if err != nil {
			logger.Error("failed to open result store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.HealthCheck(ctx, 3*time.Second); err != nil {
			logger.Error("result store health failed", "error", err)
			os.Exit(1)
		}
		logger.Info("result store ready", "driver", db.Driver())
		results = repository.NewResultRepository(db, logger)
	}

	svc := server.NewAnalysisService(a, results, logger)
	grpcServer, hs := server.NewGRPCServer(svc, logger)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	logger.Info("gRPC serving", "addr", lis.Addr().String(), "classes", set.Classes())

	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Serve(lis) }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("grpc serve failed", "error", err)
	}

	logger.Info("shutting down")
	hs.Shutdown() // reports NOT_SERVING to health watchers

	done := make(chan struct{})
	go func() { grpcServer.GracefulStop(); close(done) }()
	select {
	case <-done:
	case <-time.After(cfg.Batch.Timeout):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	logger.Info("stopped")
}
