// Package extract turns raw script execution output into spreadsheet rows.
// It is pure text processing: no I/O, no API calls.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

// ErrNotFound is reported when no execution record matches the requested
// platform and script name.
var ErrNotFound = errors.New("no matching script execution found")

// hostnameMarker precedes the device prompt in the captured console log.
const hostnameMarker = "Starting log (Run on device)\n\n"

var (
	rtcDatePattern = regexp.MustCompile(`rtc_date\s*:\s*(\S+)`)
	rtcTimePattern = regexp.MustCompile(`rtc_time\s*:\s*(\d{1,2}:\d{2}:\d{2})`)
)

// Extract finds the first record whose platform and script name match
// exactly (case sensitive, in slice order) and pulls the spreadsheet fields
// out of its output text. The date and time searches are independent; a
// token that is absent leaves its field empty rather than failing the whole
// extraction.
func Extract(records []models.ExecutionRecord, platform, script string) (models.ExtractedRow, error) {
	for _, record := range records {
		if record.Platform != platform || record.ScriptName != script {
			continue
		}
		return extractRow(record), nil
	}
	return models.ExtractedRow{}, fmt.Errorf("%w: platform %q, script %q", ErrNotFound, platform, script)
}

func extractRow(record models.ExecutionRecord) models.ExtractedRow {
	row := models.ExtractedRow{
		Hostname:     hostname(record.Output),
		SerialNumber: record.SerialNumber,
	}
	if m := rtcDatePattern.FindStringSubmatch(record.Output); m != nil {
		row.RTCDate = m[1]
	}
	if m := rtcTimePattern.FindStringSubmatch(record.Output); m != nil {
		row.RTCTime = m[1]
	}
	return row
}

// hostname reads the device prompt from the command echo that follows the
// run-on-device marker. The prompt ends at the first double space; a log
// without the marker yields "Unknown".
func hostname(output string) string {
	start := strings.Index(output, hostnameMarker)
	if start < 0 {
		return "Unknown"
	}
	rest := output[start+len(hostnameMarker):]
	if end := strings.Index(rest, "  "); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
