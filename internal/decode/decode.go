// Package decode turns tabular files into record batches and writes record
// batches back out as CSV. It is deliberately thin: the pipeline's invariants
// live in the transform/reconcile stages, this layer only deals in bytes,
// headers, and cells. Structural problems here (unreadable file, broken
// header) are fatal to the run.
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"catalogmerge/internal/records"
)

// Parser decodes one tabular stream into records. The int return is the
// number of data rows read.
type Parser interface {
	Parse(r io.Reader) ([]*records.Record, int, error)
}

// ForPath picks a Parser by file extension. CSV and XLSX are supported; the
// legacy XLS/XLSB formats must be converted upstream first.
func ForPath(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV{}, nil
	case ".xlsx", ".xlsm":
		return XLSX{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadFile decodes path with the parser its extension selects.
func ReadFile(path string) ([]*records.Record, int, error) {
	p, err := ForPath(path)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	recs, n, err := p.Parse(f)
	if err != nil {
		return nil, n, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, n, nil
}
