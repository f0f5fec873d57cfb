package main

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/async"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ingest"
)

func createWatchCmd() *cobra.Command {
	var (
		recursive bool
		initial   bool
		debounce  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch DIR [DIR...]",
		Short: "Analyze documents as they appear in drop folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			paths, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
				Roots:       args,
				Recursive:   recursive,
				SkipHidden:  true,
				InitialScan: initial,
				Debounce:    debounce,
			}, logger)
			if err != nil {
				return err
			}

			var hashes sync.Map // path -> content hash
			out := newResultWriter(cmd.OutOrStdout())
			pool := async.NewPool(a, logger,
				async.WithWorkers(cfg.Batch.Workers),
				async.WithQueueSize(cfg.Batch.QueueSize),
				async.WithProcessTimeout(cfg.Batch.Timeout),
				async.WithOnResult(func(r analyzer.Result) {
					out.write(r)
					if store == nil {
						return
					}
					h, _ := hashes.LoadAndDelete(r.PathIn)
					hash, _ := h.(string)
					if err := store.Save(context.WithoutCancel(ctx), r, hash); err != nil {
						logger.Error("failed to save result", "path", r.PathIn, "error", err)
					}
				}),
			)
			pool.Start()

			// Renamed files land back in the watched tree; the content hash
			// keeps them from being analyzed twice.
			seen := ingest.NewDeduper()
			logger.Info("watching", "roots", args, "recursive", recursive)
		loop:
			for {
				select {
				case p, ok := <-paths:
					if !ok {
						break loop
					}
					h, err := ingest.HashFile(p)
					if err != nil {
						logger.Warn("hash failed", "path", p, "error", err)
						continue
					}
					if !seen.Add(h) {
						logger.Debug("duplicate content skipped", "path", p)
						continue
					}
					hashes.Store(p, h)
					if err := pool.Enqueue(ctx, async.Job{Path: p, TraceID: h[:12]}); err != nil {
						logger.Warn("enqueue failed", "path", p, "error", err)
					}
				case err, ok := <-errs:
					if ok {
						logger.Warn("watcher error", "error", err)
					}
				case <-ctx.Done():
					break loop
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Batch.Timeout)
			defer cancel()
			pool.Shutdown(shutdownCtx)
			return nil
		},
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "watch subdirectories too")
	cmd.Flags().BoolVar(&initial, "initial-scan", true, "analyze documents already present")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "wait for writes to settle")
	return cmd
}
