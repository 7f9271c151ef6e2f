package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellDelimiter joins non-blank cells of one spreadsheet row.
const cellDelimiter = " | "

// extractXLSX dumps a workbook as text: sheets in workbook order, each
// opened by a "Sheet: <name>" marker, then one line per row with blank
// cells omitted; fully blank rows are skipped.
func extractXLSX(content []byte) (Result, error) {
	if len(content) == 0 {
		return Result{Method: MethodXLSXRows}, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Result{Method: MethodXLSXRows}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	var warnings []string

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("Sheet: ")
		sb.WriteString(sheet)
		sb.WriteByte('\n')

		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) == 0 {
				continue
			}
			sb.WriteString(strings.Join(cells, cellDelimiter))
			sb.WriteByte('\n')
		}
	}

	return Result{
		Text:     sb.String(),
		Method:   MethodXLSXRows,
		Warnings: warnings,
	}, nil
}
