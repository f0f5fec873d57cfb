package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/export"
	"github.com/IbrahimShadi/pdf-analyzer/internal/repository"
)

func createStoreCmd() *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the result history database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().PersistentPreRun(cmd, args)
			if cfg.Store.DSN == "" {
				return fmt.Errorf("no result store configured: pass --store or set PDFA_STORE_DSN")
			}
			return nil
		},
	}
	storeCmd.PersistentFlags().StringVar(&cfg.Store.DSN, "store", cfg.Store.DSN, "result database (sqlite file or postgres URL)")
	storeCmd.PersistentFlags().StringVar(&cfg.Store.Driver, "store-driver", cfg.Store.Driver, "result store driver: sqlite|pgx")
	storeCmd.AddCommand(createStorePingCmd())
	storeCmd.AddCommand(createStoreExportCmd())
	return storeCmd
}

func createStorePingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and count stored results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Store), logger)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.HealthCheck(ctx, time.Second); err != nil {
				return fmt.Errorf("store health: %w", err)
			}

			counts, err := repository.NewResultRepository(db, logger).CountByClass(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "store health: OK (%s)\n", db.Driver())
			classes := make([]string, 0, len(counts))
			for c := range counts {
				classes = append(classes, c)
			}
			sort.Strings(classes)
			for _, c := range classes {
				fmt.Fprintf(w, "- %s: %d\n", c, counts[c])
			}
			return nil
		},
	}
}

func createStoreExportCmd() *cobra.Command {
	var filter repository.ListFilter
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write stored results to a CSV or XLSX report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Store), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := repository.NewResultRepository(db, logger).List(ctx, filter)
			if err != nil {
				return common.WrapError(err, "list stored results")
			}
			if err := export.WriteFile(args[0], results, logger); err != nil {
				return common.WrapError(err, "write report")
			}
			logger.Info("report written", "path", args[0], "results", len(results))
			return nil
		},
	}
	cmd.Flags().IntVar(&filter.Limit, "limit", 1000, "maximum results")
	cmd.Flags().StringVar(&filter.TopClass, "class", "", "only this document type (synonyms such as inv or ticket accepted)")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "only this batch run")
	return cmd
}
