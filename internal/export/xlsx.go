package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
)

// SheetName is the worksheet holding the report.
const SheetName = "Analysis"

// XLSX returns a workbook (as bytes) with one row per result.
func XLSX(results []analyzer.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for n, r := range results {
		rowNum := n + 2
		for i, v := range row(r) {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			var val any = v
			// keep numbers numeric so the sheet can sum and sort them
			if Columns[i] == "confidence" || (Columns[i] == "total_value" && v != "") {
				if f64, err := strconv.ParseFloat(v, 64); err == nil {
					val = f64
				}
			}
			if err := f.SetCellValue(SheetName, cell, val); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "B", 48) // paths
	_ = f.SetColWidth(SheetName, "C", "D", 14)
	_ = f.SetColWidth(SheetName, "E", "R", 18)
	_ = f.SetColWidth(SheetName, "S", "S", 60) // errors
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
