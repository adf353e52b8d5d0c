package models

// ExecutionRecord is one historical script run on a managed device, as
// reported by the FortiManager GUI API. The (Platform, ScriptName) pair is
// the lookup identity; uniqueness is not guaranteed upstream and the first
// match in API order wins.
type ExecutionRecord struct {
	Platform     string `json:"platform"`
	ScriptName   string `json:"script_name"`
	Output       string `json:"output"`
	DeviceName   string `json:"device_name,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// ExtractedRow is the flat spreadsheet row produced from one matching
// ExecutionRecord. RTCTime and RTCDate stay empty when their tokens are
// absent from the output text; Hostname falls back to "Unknown" when the
// run-on-device marker is missing.
type ExtractedRow struct {
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"sn"`
	RTCTime      string `json:"rtc_time"`
	RTCDate      string `json:"rtc_date"`
}
