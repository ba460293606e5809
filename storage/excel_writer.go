package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Koveh/scrape-yandex-maps/models"
)

const excelSheet = "Places"

// ExcelWriter exports the flattened record set to an .xlsx workbook.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates an ExcelWriter targeting the given file path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Write implements PlaceWriter.
func (w *ExcelWriter) Write(places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return fmt.Errorf("excel: rename sheet: %w", err)
	}

	columns, rows := Flatten(places)

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := w.setRow(f, 1, header); err != nil {
		return err
	}

	for r, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		if err := w.setRow(f, r+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("excel: save %q: %w", w.path, err)
	}
	return nil
}

func (w *ExcelWriter) setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("excel: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(excelSheet, cell, &values); err != nil {
		return fmt.Errorf("excel: write row %d: %w", row, err)
	}
	return nil
}
