package buildlog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "builds.db")
	log, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	start := time.Now()
	if err := log.Record("build-1", "main.vs", start, 12*time.Millisecond, nil); err != nil {
		t.Fatalf("Record ok build: %v", err)
	}
	if err := log.Record("build-2", "main.vs", start, 5*time.Millisecond, errors.New("boom")); err != nil {
		t.Fatalf("Record failing build: %v", err)
	}

	rows, err := log.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ID != "build-2" || rows[0].Success {
		t.Fatalf("expected most recent row to be the failing build-2, got %+v", rows[0])
	}
	if rows[1].ID != "build-1" || !rows[1].Success {
		t.Fatalf("expected older row to be the successful build-1, got %+v", rows[1])
	}
}
