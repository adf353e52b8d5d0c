package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

func setupTestDB(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	// Create temp file for test database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	cfg := Config{
		DatabasePath: tmpFile.Name(),
		Debug:        false,
	}

	store, err := NewSQLiteStorage(cfg)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return store, cleanup
}

func TestNewSQLiteStorage(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	if store == nil {
		t.Fatal("expected non-nil storage")
	}
	if store.db == nil {
		t.Fatal("expected non-nil database connection")
	}
}

func TestNewSQLiteStorage_InvalidPath(t *testing.T) {
	cfg := Config{
		DatabasePath: "/nonexistent/path/test.db",
		Debug:        false,
	}

	_, err := NewSQLiteStorage(cfg)
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestCreateCollectionRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	run := &models.CollectionRun{
		RunID:       "0b8f7c1e-2f5d-4a8e-9c3b-1d2e3f4a5b6c",
		Host:        "10.0.0.1",
		ADOM:        "root",
		Platform:    "FortiGate-VM64",
		Script:      "cat_rtc",
		DeviceCount: 3,
		RowCount:    2,
		OutputPath:  "fortigate_script_history_052124_100000.xlsx",
		DurationMs:  1500,
		Success:     true,
	}

	err := store.CreateCollectionRun(ctx, run)
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if run.ID == 0 {
		t.Error("expected non-zero ID after creation")
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestGetCollectionRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	run := &models.CollectionRun{
		Host:     "fmg.example.com",
		ADOM:     "corp",
		Platform: "FortiGate-100F",
		Script:   "cat_rtc",
		RowCount: 4,
		Success:  true,
	}
	if err := store.CreateCollectionRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	retrieved, err := store.GetCollectionRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if retrieved.ID != run.ID {
		t.Errorf("expected ID %d, got %d", run.ID, retrieved.ID)
	}
	if retrieved.Script != "cat_rtc" {
		t.Errorf("expected script 'cat_rtc', got '%s'", retrieved.Script)
	}
	if retrieved.ADOM != "corp" {
		t.Errorf("expected ADOM 'corp', got '%s'", retrieved.ADOM)
	}
}

func TestGetCollectionRun_NotFound(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.GetCollectionRun(ctx, 99999)
	if err == nil {
		t.Fatal("expected error for non-existent run")
	}
}

func TestGetCollectionRuns(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Create multiple runs
	for i := 0; i < 15; i++ {
		run := &models.CollectionRun{
			Host:       "10.0.0.1",
			Platform:   "FortiGate-VM64",
			Script:     "cat_rtc",
			DurationMs: int64(i * 100),
			Success:    true,
		}
		if err := store.CreateCollectionRun(ctx, run); err != nil {
			t.Fatalf("failed to create run %d: %v", i, err)
		}
		// Small delay to ensure different timestamps
		time.Sleep(10 * time.Millisecond)
	}

	// Test pagination
	runs, total, err := store.GetCollectionRuns(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to get runs: %v", err)
	}

	if total != 15 {
		t.Errorf("expected total 15, got %d", total)
	}
	if len(runs) != 10 {
		t.Errorf("expected 10 runs, got %d", len(runs))
	}

	// Test offset
	runs, _, err = store.GetCollectionRuns(ctx, 10, 10)
	if err != nil {
		t.Fatalf("failed to get runs with offset: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("expected 5 runs with offset, got %d", len(runs))
	}
}

func TestGetCollectionRuns_Empty(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	runs, total, err := store.GetCollectionRuns(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to get runs: %v", err)
	}

	if total != 0 {
		t.Errorf("expected total 0, got %d", total)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestGetCollectionRunsByScript(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	scripts := []string{"cat_rtc", "get_status", "cat_rtc", "cat_rtc", "get_status"}
	for _, script := range scripts {
		run := &models.CollectionRun{
			Host:    "10.0.0.1",
			Script:  script,
			Success: true,
		}
		if err := store.CreateCollectionRun(ctx, run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
	}

	runs, err := store.GetCollectionRunsByScript(ctx, "cat_rtc", 0)
	if err != nil {
		t.Fatalf("failed to get runs by script: %v", err)
	}

	if len(runs) != 3 {
		t.Errorf("expected 3 cat_rtc runs, got %d", len(runs))
	}

	for _, run := range runs {
		if run.Script != "cat_rtc" {
			t.Errorf("expected cat_rtc, got %s", run.Script)
		}
	}

	// Test with limit
	runs, err = store.GetCollectionRunsByScript(ctx, "cat_rtc", 2)
	if err != nil {
		t.Fatalf("failed to get runs by script with limit: %v", err)
	}

	if len(runs) != 2 {
		t.Errorf("expected 2 cat_rtc runs with limit, got %d", len(runs))
	}
}

func TestDeleteCollectionRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	run := &models.CollectionRun{
		Host:    "10.0.0.1",
		Script:  "cat_rtc",
		Success: true,
	}
	if err := store.CreateCollectionRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := store.DeleteCollectionRun(ctx, run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	// Soft delete, so GetCollectionRun should fail
	_, err := store.GetCollectionRun(ctx, run.ID)
	if err == nil {
		t.Error("expected error when getting deleted run")
	}
}

func TestDeleteAllCollectionRuns(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		run := &models.CollectionRun{
			Host:    "10.0.0.1",
			Script:  "cat_rtc",
			Success: true,
		}
		if err := store.CreateCollectionRun(ctx, run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
	}

	_, total, _ := store.GetCollectionRuns(ctx, 10, 0)
	if total != 5 {
		t.Fatalf("expected 5 runs before delete, got %d", total)
	}

	if err := store.DeleteAllCollectionRuns(ctx); err != nil {
		t.Fatalf("failed to delete all runs: %v", err)
	}

	_, total, _ = store.GetCollectionRuns(ctx, 10, 0)
	if total != 0 {
		t.Errorf("expected 0 runs after delete all, got %d", total)
	}
}

func TestClose(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	err := store.Close()
	if err != nil {
		t.Fatalf("failed to close storage: %v", err)
	}
}

func TestCollectionRun_WithError(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	run := &models.CollectionRun{
		Host:         "10.0.0.9",
		Script:       "cat_rtc",
		ErrorMessage: "authentication failed: Login fail (code -22)",
		DurationMs:   50,
		Success:      false,
	}

	err := store.CreateCollectionRun(ctx, run)
	if err != nil {
		t.Fatalf("failed to create failed run: %v", err)
	}

	retrieved, err := store.GetCollectionRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if retrieved.Success {
		t.Error("expected Success to be false")
	}
	if retrieved.ErrorMessage != "authentication failed: Login fail (code -22)" {
		t.Errorf("unexpected error message: '%s'", retrieved.ErrorMessage)
	}
	if retrieved.OutputPath != "" {
		t.Errorf("expected empty output path on failure, got '%s'", retrieved.OutputPath)
	}
}
