// Command deactivate walks the external catalog's product pages and marks
// every active product inactive, typically before re-importing a freshly
// unified dataset. Per-product failures are logged and skipped so a single
// bad product does not abort the sweep.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"catalogmerge/internal/catalogapi"
	"catalogmerge/internal/config"
	"catalogmerge/internal/httpds"
)

func main() {
	cfg := config.Load()
	runID := uuid.NewString()
	if cfg.APIBase == "" {
		log.Fatalf("deactivate: -api-base (or CATALOG_API_BASE) is required")
	}

	headers := http.Header{}
	if cfg.APIKey != "" {
		headers.Set("X-Api-Key", cfg.APIKey)
	}
	if cfg.APIToken != "" {
		headers.Set("X-Api-Token", cfg.APIToken)
	}
	client := httpds.NewClient(httpds.Config{BaseHeaders: headers})

	start := time.Now()
	log.Printf("deactivate: run=%s base=%s page-size=%d", runID, cfg.APIBase, cfg.PageSize)

	api := &catalogapi.Client{HTTP: client, Base: cfg.APIBase}
	failed := 0
	n, err := api.DeactivateAll(context.Background(), cfg.PageSize, func(id int, err error) {
		failed++
		log.Printf("deactivate: product %d: %v", id, err)
	})
	if err != nil {
		log.Fatalf("deactivate: %v (deactivated %d before failure)", err, n)
	}

	log.Printf("deactivate: run=%s deactivated=%d failed=%d elapsed=%s",
		runID, n, failed, time.Since(start).Round(time.Millisecond))
}
