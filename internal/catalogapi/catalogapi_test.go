package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"catalogmerge/internal/httpds"
)

// fakeCatalog serves a paginated product list and records deactivations.
type fakeCatalog struct {
	mu          sync.Mutex
	products    []Product
	deactivated []int
	failIDs     map[int]bool
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		f.mu.Lock()
		defer f.mu.Unlock()
		end := offset + limit
		if end > len(f.products) {
			end = len(f.products)
		}
		var items []Product
		if offset < len(f.products) {
			items = f.products[offset:end]
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items, "total": len(f.products)})
	})
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/products/"))
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failIDs[id] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		f.deactivated = append(f.deactivated, id)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestDeactivateAll_Paginates(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	for i := 1; i <= 5; i++ {
		cat.products = append(cat.products, Product{ID: i, Active: i != 3}) // 3 already inactive
	}
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	c := &Client{HTTP: httpds.NewClient(httpds.Config{}), Base: srv.URL + "/api"}
	n, err := c.DeactivateAll(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("DeactivateAll: %v", err)
	}
	if n != 4 {
		t.Fatalf("deactivated = %d, want 4 (one already inactive)", n)
	}
	if len(cat.deactivated) != 4 {
		t.Fatalf("server saw %v", cat.deactivated)
	}
}

func TestDeactivateAll_ContinuesPastProductErrors(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{
		products: []Product{{ID: 1, Active: true}, {ID: 2, Active: true}},
		failIDs:  map[int]bool{1: true},
	}
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	var failed []int
	c := &Client{HTTP: httpds.NewClient(httpds.Config{}), Base: srv.URL + "/api"}
	n, err := c.DeactivateAll(context.Background(), 10, func(id int, err error) {
		failed = append(failed, id)
	})
	if err != nil {
		t.Fatalf("DeactivateAll: %v", err)
	}
	if n != 1 || len(failed) != 1 || failed[0] != 1 {
		t.Fatalf("n=%d failed=%v", n, failed)
	}
}

func TestDeactivateAll_PageFetchErrorAborts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{HTTP: httpds.NewClient(httpds.Config{}), Base: srv.URL + "/api"}
	if _, err := c.DeactivateAll(context.Background(), 10, nil); err == nil {
		t.Fatal("expected page fetch error")
	}
}

func TestPage_RequestShape(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotReqID = r.Header.Get("X-Request-Id")
		fmt.Fprint(w, `{"items":[],"total":0}`)
	}))
	defer srv.Close()

	c := &Client{HTTP: httpds.NewClient(httpds.Config{}), Base: srv.URL}
	if _, _, err := c.Page(context.Background(), 20, 10); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if gotPath != "/products?offset=20&limit=10" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReqID == "" {
		t.Error("missing X-Request-Id header")
	}
}
