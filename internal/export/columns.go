// Package export writes analysis results as CSV or XLSX reports.
package export

import (
	"strconv"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
)

// Columns is the report header, in order.
var Columns = []string{
	"path_in", "path_out", "top_class", "confidence",
	"invoice_number", "customer_name", "invoice_date", "total_value", "currency",
	"pnr", "passenger_name", "flight_number", "departure_date", "carrier",
	"surname", "given_names", "nationality", "date_of_expiry",
	"errors",
}

// row flattens r in Columns order. Absent values are empty strings.
func row(r analyzer.Result) []string {
	fields := extract.ToMap(r.Extracted)
	out := make([]string, len(Columns))
	for i, col := range Columns {
		switch col {
		case "path_in":
			out[i] = r.PathIn
		case "path_out":
			if r.PathOut != nil {
				out[i] = *r.PathOut
			}
		case "top_class":
			out[i] = r.TopClass
		case "confidence":
			out[i] = strconv.FormatFloat(analyzer.Round4(r.Confidence), 'f', -1, 64)
		case "errors":
			out[i] = r.ErrorString()
		default:
			if v, ok := fields[col].(string); ok {
				out[i] = v
			}
		}
	}
	return out
}
