package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileNameMatchesReferenceConvention(t *testing.T) {
	name := FileName("ucb1", true, false, 2, 3)
	if name != "evaluation_data_ucb1_1_0_2.0_3.csv" {
		t.Fatalf("unexpected file name: %s", name)
	}
}

func TestWriterWritesHeaderOnceAndAppends(t *testing.T) {
	dir := t.TempDir()
	name := "test.csv"

	w, err := NewWriter(dir, name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Write(Record{Episode: 0, Time: time.Unix(0, 0), Throughput: 100}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	w2, err := NewWriter(dir, name)
	if err != nil {
		t.Fatalf("unexpected reopen error: %v", err)
	}
	if err := w2.Write(Record{Episode: 1, Time: time.Unix(15, 0), Throughput: 200}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "episode,time,") {
		t.Fatalf("expected header row, got %q", lines[0])
	}
}
