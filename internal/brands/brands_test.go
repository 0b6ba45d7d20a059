package brands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogmerge/internal/httpds"
	"catalogmerge/internal/records"
	"catalogmerge/internal/review"
)

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2000000,"name":"Acme"},{"id":2000001,"name":"bosch"}]`))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: httpds.NewClient(httpds.Config{}), URL: srv.URL}
	entries, err := f.FetchBrands(context.Background())
	if err != nil {
		t.Fatalf("FetchBrands: %v", err)
	}
	dir := BuildDirectory(entries)
	if dir["ACME"] != 2000000 || dir["BOSCH"] != 2000001 {
		t.Fatalf("directory = %v", dir)
	}
}

func TestHTTPFetcher_NonOKIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: httpds.NewClient(httpds.Config{}), URL: srv.URL}
	if _, err := f.FetchBrands(context.Background()); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestParseSKUNames(t *testing.T) {
	t.Parallel()

	in := "SKU,Marca\n1,Acme\n2,bosch\n,SinId\n3,\n"
	m, err := ParseSKUNames(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseSKUNames: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("map = %v, want 2 entries", m)
	}
	if m["1"] != "ACME" || m["2"] != "BOSCH" {
		t.Fatalf("map = %v", m)
	}
}

func TestParseSKUNames_NoHeader(t *testing.T) {
	t.Parallel()

	m, err := ParseSKUNames(strings.NewReader("10,Acme\n11,Umco\n"))
	if err != nil {
		t.Fatalf("ParseSKUNames: %v", err)
	}
	if m["10"] != "ACME" || m["11"] != "UMCO" {
		t.Fatalf("map = %v", m)
	}
}

type fakeFetcher struct {
	entries []Entry
	err     error
}

func (f fakeFetcher) FetchBrands(context.Context) ([]Entry, error) { return f.entries, f.err }

func TestLoad(t *testing.T) {
	t.Parallel()

	skuPath := filepath.Join(t.TempDir(), "marcas.csv")
	if err := os.WriteFile(skuPath, []byte("SKU,Marca\n1,Acme\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, names, err := Load(context.Background(), fakeFetcher{entries: []Entry{{ID: 5, Name: "Acme"}}}, skuPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dir["ACME"] != 5 || names["1"] != "ACME" {
		t.Fatalf("dir=%v names=%v", dir, names)
	}
}

func TestLoad_FetchFailureIsFatal(t *testing.T) {
	t.Parallel()

	skuPath := filepath.Join(t.TempDir(), "marcas.csv")
	os.WriteFile(skuPath, []byte("1,Acme\n"), 0o644)

	_, _, err := Load(context.Background(), fakeFetcher{err: errors.New("boom")}, skuPath)
	if err == nil {
		t.Fatal("expected fetch error to fail the load")
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	recs := []*records.Record{
		records.FromPairs("RefId", "1", "Name", "Olla"),   // resolves
		records.FromPairs("RefId", "2", "Name", "Sartén"), // no sku → name entry
		records.FromPairs("RefId", "3", "Name", "Vaso"),   // name not in directory
	}
	rev := review.New(filepath.Join(t.TempDir(), "out_skipped.csv"))

	r := &Resolver{
		Dir:      Directory{"ACME": 42},
		SKUNames: map[string]string{"1": "ACME", "3": "FANTASMA"},
	}
	st := r.Resolve(recs, rev)

	if st.Total != 3 || st.Resolved != 1 || st.NoName != 1 || st.NoBrand != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if got := recs[0].GetString(BrandField); got != "42" {
		t.Fatalf("BrandId = %q, want 42", got)
	}
	for _, i := range []int{1, 2} {
		v, ok := recs[i].Get(BrandField)
		if !ok || v != nil {
			t.Fatalf("record %d BrandId = %v, want null", i, v)
		}
	}
	// Review export is additive: unresolved records appear there too.
	if rev.Len() != 2 {
		t.Fatalf("review entries = %d, want 2", rev.Len())
	}
}
