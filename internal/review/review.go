// Package review implements the shared side channel for records a stage
// could not fully process. Exports are plain CSV files readable with
// spreadsheet tooling, named by suffix convention relative to the primary
// output (e.g. salida.csv → salida_no_unificados.csv). A record landing in
// a review file is an audit trail, never an error log.
package review

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalogmerge/internal/records"
)

// PathFor derives a review file path from the primary output path and a
// suffix: the suffix is inserted before the extension.
func PathFor(primary, suffix string) string {
	ext := filepath.Ext(primary)
	return strings.TrimSuffix(primary, ext) + suffix + ext
}

// Exporter accumulates review records in memory and flushes them once at the
// end of the run. Columns default to the union of keys across exported
// records in first-seen order; SetColumns installs a reference schema
// instead. The file is only created when at least one record was exported.
type Exporter struct {
	path    string
	columns []string
	recs    []*records.Record
	reasons map[string]int
	seen    map[uint64]struct{}
}

func New(path string) *Exporter {
	return &Exporter{
		path:    path,
		reasons: make(map[string]int),
		seen:    make(map[uint64]struct{}),
	}
}

// SetColumns fixes the output column order to a reference schema. Keys a
// record does not have render as empty cells.
func (e *Exporter) SetColumns(cols []string) {
	e.columns = append([]string(nil), cols...)
}

// Add queues rec for export under the given reason.
func (e *Exporter) Add(reason string, rec *records.Record) {
	e.reasons[reason]++
	e.recs = append(e.recs, rec)
}

// AddUnique queues rec unless an identical record was queued before.
// Reports whether the record was added.
func (e *Exporter) AddUnique(reason string, rec *records.Record) bool {
	fp := rec.Fingerprint()
	if _, dup := e.seen[fp]; dup {
		return false
	}
	e.seen[fp] = struct{}{}
	e.Add(reason, rec)
	return true
}

// Len returns the number of queued records.
func (e *Exporter) Len() int { return len(e.recs) }

// Counts returns per-reason export counts for operator reporting.
func (e *Exporter) Counts() map[string]int {
	out := make(map[string]int, len(e.reasons))
	for k, v := range e.reasons {
		out[k] = v
	}
	return out
}

// Path returns the destination file path.
func (e *Exporter) Path() string { return e.path }

// Flush writes the queued records as CSV. With nothing queued it writes no
// file at all and returns nil.
func (e *Exporter) Flush() error {
	if len(e.recs) == 0 {
		return nil
	}
	cols := e.columns
	if len(cols) == 0 {
		cols = records.UnionKeys(e.recs)
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, r := range e.recs {
		for i, c := range cols {
			row[i] = r.GetString(c)
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", e.path, err)
	}
	return f.Close()
}
