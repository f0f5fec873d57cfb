package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

// WriteFile writes the report to path, picking XLSX for ".xlsx" and CSV
// otherwise. Parent directories are created.
func WriteFile(path string, results []analyzer.Result, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		data, err = XLSX(results)
	case ".csv", "":
		var buf bytes.Buffer
		err = WriteCSV(&buf, results)
		data = buf.Bytes()
	default:
		return fmt.Errorf("%w: report format %q", common.ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", "path", path, "rows", len(results), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
