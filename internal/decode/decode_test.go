package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"catalogmerge/internal/records"
)

func TestCSV_Parse(t *testing.T) {
	t.Parallel()

	in := "\uFEFFSKU, Descripción\n1,olla\n2\n"
	recs, n, err := CSV{}.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 2 || len(recs) != 2 {
		t.Fatalf("n=%d len=%d, want 2/2", n, len(recs))
	}
	if want := []string{"SKU", "Descripción"}; !reflect.DeepEqual(recs[0].Keys(), want) {
		t.Fatalf("keys = %v, want %v (BOM and edge space stripped)", recs[0].Keys(), want)
	}
	if recs[0].GetString("Descripción") != "olla" {
		t.Fatalf("value = %q", recs[0].GetString("Descripción"))
	}
	// Short row pads with null, not "".
	if v, ok := recs[1].Get("Descripción"); !ok || v != nil {
		t.Fatalf("short row cell = (%v, %v), want (nil, true)", v, ok)
	}
}

func TestCSV_EmptyInputIsStructuralError(t *testing.T) {
	t.Parallel()

	if _, _, err := (CSV{}).Parse(strings.NewReader("")); err == nil {
		t.Fatal("expected header error on empty input")
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	recs := []*records.Record{
		records.FromPairs("RefId", "1", "Name", "Olla"),
		records.FromPairs("RefId", "2", "Categoría", "A>B"),
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records.UnionKeys(recs), recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, n, err := CSV{}.Parse(&buf)
	if err != nil || n != 2 {
		t.Fatalf("Parse back: n=%d err=%v", n, err)
	}
	if got[1].GetString("Categoría") != "A>B" {
		t.Fatalf("round-trip lost value: %v", got[1].Keys())
	}
}

func TestXLSX_Parse(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range [][]any{
		{"MECA", "CATEGORIA", "DESCRIPCION"},
		{"10", "hogar", "OLLA GRANDE"},
		{"11"},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	recs, n, err := XLSX{}.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if recs[0].GetString("DESCRIPCION") != "OLLA GRANDE" {
		t.Fatalf("record = %v", recs[0].Keys())
	}
	if v, ok := recs[1].Get("CATEGORIA"); !ok || v != nil {
		t.Fatalf("short xlsx row cell = (%v, %v), want (nil, true)", v, ok)
	}
}

func TestForPath(t *testing.T) {
	t.Parallel()

	if _, err := ForPath("datos.csv"); err != nil {
		t.Errorf("csv: %v", err)
	}
	if _, err := ForPath("datos.XLSX"); err != nil {
		t.Errorf("xlsx (case-insensitive): %v", err)
	}
	if _, err := ForPath("datos.xls"); err == nil {
		t.Error("legacy xls should be rejected")
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("A\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, n, err := ReadFile(path)
	if err != nil || n != 1 {
		t.Fatalf("ReadFile: n=%d err=%v", n, err)
	}
	if recs[0].GetString("A") != "1" {
		t.Fatalf("record = %v", recs[0].Keys())
	}
}
