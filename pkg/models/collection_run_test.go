package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCollectionRunJSON(t *testing.T) {
	run := CollectionRun{
		ID:          7,
		CreatedAt:   time.Date(2024, 5, 21, 10, 0, 0, 0, time.UTC),
		RunID:       "0b8f7c1e-2f5d-4a8e-9c3b-1d2e3f4a5b6c",
		Host:        "10.0.0.1",
		ADOM:        "root",
		Platform:    "FortiGate-VM64",
		Script:      "cat_rtc",
		DeviceCount: 3,
		RowCount:    2,
		OutputPath:  "fortigate_script_history_052124_100000.xlsx",
		DurationMs:  1250,
		Success:     true,
	}

	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("failed to marshal run: %v", err)
	}

	var decoded CollectionRun
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal run: %v", err)
	}

	if decoded.RunID != run.RunID {
		t.Errorf("expected run_id %s, got %s", run.RunID, decoded.RunID)
	}
	if decoded.Script != run.Script {
		t.Errorf("expected script %s, got %s", run.Script, decoded.Script)
	}
	if decoded.RowCount != run.RowCount {
		t.Errorf("expected row count %d, got %d", run.RowCount, decoded.RowCount)
	}
	if !decoded.Success {
		t.Error("expected success to survive the round trip")
	}
}

func TestCollectionRunFailureOmitsOutputPath(t *testing.T) {
	run := CollectionRun{
		Host:         "fmg.example.com",
		Script:       "cat_rtc",
		ErrorMessage: "authentication failed",
		Success:      false,
	}

	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("failed to marshal run: %v", err)
	}

	if strings.Contains(string(data), "output_path") {
		t.Error("expected empty output_path to be omitted")
	}
	if !strings.Contains(string(data), "authentication failed") {
		t.Error("expected error_message to be present")
	}
}
