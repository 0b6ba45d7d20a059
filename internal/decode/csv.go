package decode

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"catalogmerge/internal/records"
)

// CSV parses comma-separated input with a header row. The reader is
// tolerant by default: variable field counts, lazy quotes, trimmed leading
// space. Cells beyond a short row decode as null, never as "".
type CSV struct {
	// Comma overrides the delimiter; zero means ','.
	Comma rune
}

func (c CSV) Parse(r io.Reader) ([]*records.Record, int, error) {
	cr := csv.NewReader(r)
	if c.Comma != 0 {
		cr.Comma = c.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	header = cleanHeader(header)

	var out []*records.Record
	rows := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rows, fmt.Errorf("read row %d: %w", rows+2, err)
		}
		rows++
		rec := records.New()
		for i, h := range header {
			if i < len(row) {
				rec.Set(h, row[i])
			} else {
				rec.Set(h, nil)
			}
		}
		out = append(out, rec)
	}
	return out, rows, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF") // strip BOM
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// WriteCSV writes recs to w with the given column order; nulls and missing
// keys render as empty cells.
func WriteCSV(w io.Writer, cols []string, recs []*records.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, r := range recs {
		for i, c := range cols {
			row[i] = r.GetString(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes recs to path using the union of their keys in
// first-seen order as the column set.
func WriteCSVFile(path string, recs []*records.Record) error {
	f, err := osCreate(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records.UnionKeys(recs), recs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
