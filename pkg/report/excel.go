package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

// SheetName is the single worksheet rows are written to.
const SheetName = "Script History"

// ExcelWriter writes rows into a single-sheet XLSX workbook.
type ExcelWriter struct{}

func (e *ExcelWriter) Write(path string, rows []models.ExtractedRow) error {
	workbook := excelize.NewFile()
	defer func() {
		_ = workbook.Close()
	}()

	if err := workbook.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := setRow(workbook, 1, Header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(workbook, i+2, rowCells(row)); err != nil {
			return err
		}
	}

	return atomicWrite(path, func(f *os.File) error {
		return workbook.Write(f)
	})
}

func setRow(workbook *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := workbook.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
