package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catalogmerge/internal/records"
)

// XLSX parses the first sheet (or Sheet, when set) of an Office Open XML
// workbook. The first row is the header; short rows pad with nulls like the
// CSV parser does.
type XLSX struct {
	Sheet string
}

func (x XLSX) Parse(r io.Reader) ([]*records.Record, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("sheet %q has no header row", sheet)
	}

	header := cleanHeader(rows[0])
	var out []*records.Record
	for _, row := range rows[1:] {
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
	return out, len(out), nil
}

func osCreate(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
