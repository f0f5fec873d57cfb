package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
)

// WriteCSV writes a header line followed by one row per result.
func WriteCSV(w io.Writer, results []analyzer.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("csv row %s: %w", r.PathIn, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
