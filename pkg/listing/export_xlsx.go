package listing

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX выгружает строки в книгу Excel: жирная шапка и по строке на запись.
func WriteXLSX(w io.Writer, sheet string, cols []Column, rows []Row) error {
	cols = ColumnsFor(cols, rows)
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("переименование листа: %w", err)
	}

	headers := Headers(cols)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("запись шапки: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("создание стиля: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("стиль шапки: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(cols))
		for j, col := range cols {
			v := r[col.Field]
			if n, ok := toFloat(v); ok {
				values[j] = n
			} else {
				values[j] = FormatValue(v)
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("запись строки %d: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	_ = f.SetColWidth(sheet, "A", lastCol, 20)

	return f.Write(w)
}
