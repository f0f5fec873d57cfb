package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/async"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/export"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ingest"
)

func createAnalyzeCmd() *cobra.Command {
	var (
		recursive bool
		report    string
		skipSeen  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze PATH",
		Short: "Analyze a PDF or every PDF in a directory",
		Long:  `Classifies each document, extracts its fields and prints one JSON object per document to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}

			paths, stats, err := ingest.Discover(ctx, args[0], ingest.ScanOptions{Recursive: recursive, SkipHidden: true})
			if err != nil {
				return err
			}
			logger.Info("documents discovered", "root", args[0], "matched", stats.Matched, "skipped", stats.Skipped, "failed", stats.Failed)
			if len(paths) == 0 {
				logger.Warn("no documents found", "root", args[0])
				return nil
			}

			store, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			// Hash before analysis; renaming moves the files.
			hashes := make(map[string]string, len(paths))
			if store != nil {
				todo := paths[:0]
				for _, p := range paths {
					h, err := ingest.HashFile(p)
					if err != nil {
						logger.Warn("hash failed", "path", p, "error", err)
						todo = append(todo, p)
						continue
					}
					if skipSeen {
						if prev, err := store.FindByHash(ctx, h); err == nil {
							logger.Info("already analyzed, skipping", "path", p, "result_id", prev.ID, "top_class", prev.TopClass)
							continue
						} else if !errors.Is(err, common.ErrNotFound) {
							return err
						}
					}
					hashes[p] = h
					todo = append(todo, p)
				}
				paths = todo
			}

			pool := async.NewPool(a, logger,
				async.WithWorkers(cfg.Batch.Workers),
				async.WithProcessTimeout(cfg.Batch.Timeout),
			)
			results := pool.Process(ctx, paths)

			out := newResultWriter(cmd.OutOrStdout())
			counts := map[constants.AnalysisStatus]int{}
			for _, r := range results {
				out.write(r)
				counts[r.Status]++
				if store != nil {
					if err := store.Save(ctx, r, hashes[r.PathIn]); err != nil {
						logger.Error("failed to save result", "path", r.PathIn, "error", err)
					}
				}
			}

			if report != "" {
				if err := export.WriteFile(report, results, logger); err != nil {
					return err
				}
			}

			logger.Info("analysis complete",
				"documents", len(results),
				"renamed", counts[constants.StatusRenamed],
				"classified", counts[constants.StatusClassified],
				"below_threshold", counts[constants.StatusBelowThreshold],
				"failed", counts[constants.StatusFailed],
			)
			return nil
		},
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().StringVar(&report, "report", "", "write a CSV or XLSX report to this file")
	cmd.Flags().BoolVar(&skipSeen, "skip-seen", false, "skip documents whose content already has a stored result")
	return cmd
}
