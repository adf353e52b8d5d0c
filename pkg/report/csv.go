package report

import (
	"encoding/csv"
	"os"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

// CSVWriter writes rows as RFC 4180 CSV with a header row. Fields that
// contain delimiters or newlines come out quoted, so raw output fragments
// are safe to embed.
type CSVWriter struct{}

func (c *CSVWriter) Write(path string, rows []models.ExtractedRow) error {
	return atomicWrite(path, func(f *os.File) error {
		writer := csv.NewWriter(f)
		if err := writer.Write(Header); err != nil {
			return err
		}
		for _, row := range rows {
			if err := writer.Write(rowCells(row)); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	})
}
