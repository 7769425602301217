package log

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRetrievalBeforeInit(t *testing.T) {
	if _, err := GetLastNLogs(5); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLastNLogs before Init: got %v, want ErrNotInitialized", err)
	}
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	if err := Init(dbFile); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	if err := Init(dbFile); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Init: got %v", err)
	}

	Info().Str("op", "encrypt").Msg("first")
	Warn().Msg("second")
	Printf("third %d", 3)

	last, err := GetLastNLogs(2)
	if err != nil {
		t.Fatalf("GetLastNLogs failed: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("got %d entries, want 2", len(last))
	}
	if !strings.Contains(last[0].LogData, "second") || !strings.Contains(last[1].LogData, "third 3") {
		t.Fatalf("unexpected order: %q, %q", last[0].LogData, last[1].LogData)
	}

	all, err := GetLogsSinceInit()
	if err != nil {
		t.Fatalf("GetLogsSinceInit failed: %v", err)
	}
	if len(all) != 3 || !strings.Contains(all[0].LogData, `"op":"encrypt"`) {
		t.Fatalf("GetLogsSinceInit = %+v", all)
	}

	since, err := GetLogsSince(time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("GetLogsSince failed: %v", err)
	}
	if len(since) != 3 {
		t.Fatalf("GetLogsSince returned %d entries, want 3", len(since))
	}

	none, err := GetLogsBetween(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetLogsBetween failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("GetLogsBetween returned %d entries for an empty window", len(none))
	}
}

func TestSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
	defer SetLevel("info")

	Info().Msg("hidden")
	Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter not applied: %q", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal("SetLevel accepted an unknown level")
	}
}
