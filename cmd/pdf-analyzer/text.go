package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/ocr"
)

// createTextCmd prints what the classifier would see for one document.
func createTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text FILE",
		Short: "Extract and print the text of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
			res, err := x.Extract(cmd.Context(), args[0])
			if err != nil {
				logger.Error("text extraction failed", "path", args[0], "method", res.Method,
					"duration_ms", res.Duration.Milliseconds(), "error", err)
				return err
			}
			logger.Info("text extraction OK",
				"method", res.Method,
				"pages", res.Pages,
				"chars", utf8.RuneCountInString(res.Text),
				"confidence", res.Confidence,
				"warnings", res.Warnings,
				"duration_ms", res.Duration.Milliseconds(),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	cmd.Flags().BoolVar(&cfg.OCR.Enabled, "ocr", cfg.OCR.Enabled, "OCR PDFs without a text layer")
	cmd.Flags().StringVar(&cfg.OCR.Lang, "lang", cfg.OCR.Lang, "tesseract language")
	return cmd
}
