// Package results writes the append-only per-step evaluation record the
// reference system pickled (main.py's save_evaluation_data) as CSV instead,
// since the consuming side (pickle rendering/plotting) is out of scope.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Record is one step's evaluation output, field order matching spec.md §6.
type Record struct {
	Episode        int
	Time           time.Time
	AvgDelay       float64
	DropRate       float64
	GenerationRate float64
	Throughput     float64
	AvgHops        float64
	MainLinkOut    float64
	Cost           float64
}

var header = []string{
	"episode", "time", "avg_delay", "drop_rate", "generation_rate",
	"throughput", "avg_hops", "main_link_out", "cost",
}

// FileName reproduces the reference system's result-file naming convention
// (strategy, failure flags as 0/1, growth factor to one decimal, repetition),
// with the pickle ".npy" extension replaced by ".csv".
func FileName(strategy string, gslFailures, islFailures bool, growthFactor float64, repetition int) string {
	return fmt.Sprintf("evaluation_data_%s_%s_%s_%.1f_%d.csv",
		strategy, boolFlag(gslFailures), boolFlag(islFailures), growthFactor, repetition)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Writer appends Records to one CSV file, writing the header once.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	csv *csv.Writer
}

// NewWriter opens (creating if needed) dir/name, writing the CSV header if
// the file is new.
func NewWriter(dir, name string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("results: creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("results: opening %s: %w", path, err)
	}

	w := &Writer{f: f, csv: csv.NewWriter(f)}
	if needsHeader {
		if err := w.csv.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("results: writing header to %s: %w", path, err)
		}
		w.csv.Flush()
	}
	return w, nil
}

// Write appends one record and flushes immediately, so the records of a
// worker that stops early on an error or a cancellation are already on disk.
func (w *Writer) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	row := []string{
		strconv.Itoa(r.Episode),
		r.Time.UTC().Format(time.RFC3339),
		strconv.FormatFloat(r.AvgDelay, 'f', -1, 64),
		strconv.FormatFloat(r.DropRate, 'f', -1, 64),
		strconv.FormatFloat(r.GenerationRate, 'f', -1, 64),
		strconv.FormatFloat(r.Throughput, 'f', -1, 64),
		strconv.FormatFloat(r.AvgHops, 'f', -1, 64),
		strconv.FormatFloat(r.MainLinkOut, 'f', -1, 64),
		strconv.FormatFloat(r.Cost, 'f', -1, 64),
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("results: writing record: %w", err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	return w.f.Close()
}
