package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

var (
	// Configuration loaded from the environment; flags write into it.
	cfg    *common.Config
	logger *slog.Logger
)

func main() {
	cfg = common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logLevel string
	rootCmd := &cobra.Command{
		Use:           "pdf-analyzer",
		Short:         "Classify PDFs, extract key fields and rename them",
		Long:          `Scores document text against keyword, phrase and regex rules, extracts invoice, flight ticket and passport fields, and derives canonical filenames.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = common.ParseLogLevel(logLevel)
			}
			logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	rootCmd.AddCommand(createAnalyzeCmd())
	rootCmd.AddCommand(createWatchCmd())
	rootCmd.AddCommand(createTextCmd())
	rootCmd.AddCommand(createRulesCmd())
	rootCmd.AddCommand(createStoreCmd())
	rootCmd.AddCommand(createRemoteCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
