package review

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"catalogmerge/internal/records"
)

func TestPathFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		primary, suffix, want string
	}{
		{"salida.csv", "_no_unificados", "salida_no_unificados.csv"},
		{"out/unificado.csv", "_skipped", "out/unificado_skipped.csv"},
		{"sinext", "_conflictos", "sinext_conflictos"},
	}
	for _, tc := range cases {
		if got := PathFor(tc.primary, tc.suffix); got != tc.want {
			t.Errorf("PathFor(%q, %q) = %q, want %q", tc.primary, tc.suffix, got, tc.want)
		}
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestExporter_FlushUnionColumns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out_no_unificados.csv")
	e := New(path)
	e.Add("sin_correspondencia", records.FromPairs("SKU", "1", "Descripción", "d"))
	e.Add("sin_correspondencia", records.FromPairs("SKU", "2", "Extra", "x"))

	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	rows := readCSV(t, path)
	if want := []string{"SKU", "Descripción", "Extra"}; !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("header = %v, want %v", rows[0], want)
	}
	if want := []string{"2", "", "x"}; !reflect.DeepEqual(rows[2], want) {
		t.Fatalf("row = %v, want %v", rows[2], want)
	}
}

func TestExporter_ReferenceColumns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out_skipped.csv")
	e := New(path)
	e.SetColumns([]string{"SKU", "Nombre", "Precio"})
	e.Add("sin_marca", records.FromPairs("Nombre", "n", "SKU", "9"))

	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	rows := readCSV(t, path)
	if want := []string{"SKU", "Nombre", "Precio"}; !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("header = %v, want %v", rows[0], want)
	}
	if want := []string{"9", "n", ""}; !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row = %v, want %v", rows[1], want)
	}
}

func TestExporter_EmptyWritesNoFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	e := New(path)
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty exporter should not create a file, stat err = %v", err)
	}
}

func TestExporter_AddUnique(t *testing.T) {
	t.Parallel()

	e := New(filepath.Join(t.TempDir(), "dup.csv"))
	rec := records.FromPairs("SUBCATEGORIA", "X/Y")
	if !e.AddUnique("conflicto", rec) {
		t.Fatal("first add should succeed")
	}
	if e.AddUnique("conflicto", rec.Clone()) {
		t.Fatal("identical record should be suppressed")
	}
	if e.Len() != 1 {
		t.Fatalf("Len = %d, want 1", e.Len())
	}
	if e.Counts()["conflicto"] != 1 {
		t.Fatalf("Counts = %v", e.Counts())
	}
}
