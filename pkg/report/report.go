// Package report serializes extracted rows into spreadsheet files.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

// ErrWrite marks spreadsheet write failures.
var ErrWrite = errors.New("report write failed")

// Header is the spreadsheet header row. Column order matches the legacy
// report layout consumers already parse.
var Header = []string{"Hostname", "SN", "rtc_time", "rtc_date"}

const defaultPrefix = "fortigate_script_history"

// Writer serializes rows into a spreadsheet file at path. Implementations
// must not leave a partial file behind on failure.
type Writer interface {
	Write(path string, rows []models.ExtractedRow) error
}

// ForPath picks a writer by file extension: .csv selects the CSV writer,
// anything else the XLSX workbook writer.
func ForPath(path string) Writer {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return &CSVWriter{}
	}
	return &ExcelWriter{}
}

// DefaultFilename returns the timestamped workbook name used when no output
// path is configured, e.g. fortigate_script_history_052124_100000.xlsx.
// The timestamp is UTC.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", defaultPrefix, now.UTC().Format("010206_150405"))
}

func rowCells(row models.ExtractedRow) []string {
	return []string{row.Hostname, row.SerialNumber, row.RTCTime, row.RTCDate}
}

// atomicWrite streams through a temp file in the target directory and
// renames it into place, so a failed run leaves no output file behind.
func atomicWrite(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
