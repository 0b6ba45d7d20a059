// Package brands performs the two-hop brand lookup: unified identifier →
// local brand name → directory brand id. The external directory is fetched
// exactly once per run through an injectable Fetcher, so the single network
// call stays isolated and mockable; a fetch failure is fatal to the run.
package brands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"catalogmerge/internal/httpds"
	"catalogmerge/internal/records"
	"catalogmerge/internal/review"
)

// BrandField is the column the resolver writes on every record; unresolved
// records carry a null there.
const BrandField = "BrandId"

// Entry is one external directory row.
type Entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Directory maps upper-cased brand name to brand id. It is built once per
// run and never mutated afterwards.
type Directory map[string]int

// BuildDirectory folds entries into a Directory, upper-casing names.
// Duplicate names resolve last-wins.
func BuildDirectory(entries []Entry) Directory {
	d := make(Directory, len(entries))
	for _, e := range entries {
		d[strings.ToUpper(e.Name)] = e.ID
	}
	return d
}

// Fetcher retrieves the external brand directory.
type Fetcher interface {
	FetchBrands(ctx context.Context) ([]Entry, error)
}

// HTTPFetcher fetches the directory as a JSON array of {id,name} objects.
type HTTPFetcher struct {
	Client *httpds.Client
	URL    string
}

func (f *HTTPFetcher) FetchBrands(ctx context.Context) ([]Entry, error) {
	resp, err := f.Client.Get(ctx, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch brand directory: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch brand directory: %s", resp.Status)
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode brand directory: %w", err)
	}
	return entries, nil
}

// ParseSKUNames reads the identifier → brand name side mapping produced by
// the prior extraction stage: a CSV whose first column is the identifier and
// second column the brand name. A header row is skipped when its second cell
// names a known brand column. Names are stored upper-cased.
func ParseSKUNames(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := make(map[string]string)
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read sku map line %d: %w", line+1, err)
		}
		line++
		if len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(strings.TrimPrefix(row[0], "\uFEFF"))
		name := strings.TrimSpace(row[1])
		if line == 1 && isHeaderName(name) {
			continue
		}
		if id == "" || name == "" {
			continue
		}
		out[id] = strings.ToUpper(name)
	}
}

func isHeaderName(s string) bool {
	switch strings.ToUpper(s) {
	case "MARCA", "BRAND", "NOMBRE", "NAME":
		return true
	}
	return false
}

// Load gathers the two resolver inputs. They are independent, so the
// directory fetch and the side-map read run concurrently; either failure
// fails the whole load.
func Load(ctx context.Context, f Fetcher, skuMapPath string) (Directory, map[string]string, error) {
	var (
		dir      Directory
		skuNames map[string]string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := f.FetchBrands(ctx)
		if err != nil {
			return err
		}
		dir = BuildDirectory(entries)
		return nil
	})
	g.Go(func() error {
		fh, err := os.Open(skuMapPath)
		if err != nil {
			return fmt.Errorf("open sku map: %w", err)
		}
		defer fh.Close()
		skuNames, err = ParseSKUNames(fh)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return dir, skuNames, nil
}

// Stats are the operator-facing counts of one Resolve call.
type Stats struct {
	Total    int
	Resolved int
	NoName   int // identifier absent from the sku → name map
	NoBrand  int // name absent from the directory
}

// Resolver enriches unified records with BrandField.
type Resolver struct {
	Dir      Directory
	SKUNames map[string]string
	Key      string // identifier column, default "RefId"
}

// Resolve assigns BrandField on every record in place. Misses at either hop
// leave a null brand id and additionally copy the record into rev; no record
// ever leaves the primary stream, enrichment failure is not data loss.
func (r *Resolver) Resolve(recs []*records.Record, rev *review.Exporter) Stats {
	key := r.Key
	if key == "" {
		key = "RefId"
	}
	var st Stats
	st.Total = len(recs)
	for _, rec := range recs {
		id := rec.GetString(key)
		name, ok := r.SKUNames[id]
		if !ok {
			rec.Set(BrandField, nil)
			st.NoName++
			rev.Add("sin_nombre_marca", rec.Clone())
			continue
		}
		brandID, ok := r.Dir[strings.ToUpper(name)]
		if !ok {
			rec.Set(BrandField, nil)
			st.NoBrand++
			rev.Add("marca_no_en_directorio", rec.Clone())
			continue
		}
		rec.Set(BrandField, strconv.Itoa(brandID))
		st.Resolved++
	}
	return st
}
