// Command brandresolve annotates a unified catalog CSV with BrandId. The
// brand directory comes from an HTTP endpoint and the RefId-to-brand-name map
// from a local CSV; records that cannot be resolved keep a null BrandId and
// are copied to review exports so data owners can fix the sources.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"catalogmerge/internal/brands"
	"catalogmerge/internal/config"
	"catalogmerge/internal/decode"
	"catalogmerge/internal/httpds"
	"catalogmerge/internal/metrics"
	"catalogmerge/internal/metrics/prompush"
	"catalogmerge/internal/review"
)

func main() {
	cfg := config.Load()
	runID := uuid.NewString()
	job := "brandresolve"
	setupMetrics(cfg, job)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	in := cfg.InPath
	if in == "" {
		in = cfg.OutPath
	}
	start := time.Now()
	log.Printf("brandresolve: run=%s in=%s out=%s directory=%s sku-names=%s",
		runID, in, cfg.OutPath, cfg.DirectoryURL, cfg.SKUNamesCSV)

	recs, rows, err := decode.ReadFile(in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	log.Printf("brandresolve: decoded %d rows", rows)

	client := httpds.NewClient(httpds.Config{})
	fetcher := &brands.HTTPFetcher{Client: client, URL: cfg.DirectoryURL}
	dir, names, err := brands.Load(context.Background(), fetcher, cfg.SKUNamesCSV)
	if err != nil {
		log.Fatalf("load brand sources: %v", err)
	}
	log.Printf("brandresolve: directory=%d brands sku-names=%d entries", len(dir), len(names))

	rev := review.New(review.PathFor(cfg.OutPath, "_sin_marca"))
	res := &brands.Resolver{Dir: dir, SKUNames: names}
	stats := res.Resolve(recs, rev)

	if err := rev.Flush(); err != nil {
		log.Fatalf("write review export: %v", err)
	}
	if err := decode.WriteCSVFile(cfg.OutPath, recs); err != nil {
		log.Fatalf("write output: %v", err)
	}

	log.Printf("brandresolve: run=%s processed=%d resolved=%d sin_nombre=%d sin_marca=%d",
		runID, stats.Total, stats.Resolved, stats.NoName, stats.NoBrand)

	metrics.RecordRecords(job, "processed", int64(stats.Total))
	metrics.RecordRecords(job, "resolved", int64(stats.Resolved))
	metrics.RecordRecords(job, "unresolved", int64(stats.NoName+stats.NoBrand))
	metrics.RecordStage(job, "resolve", nil, time.Since(start))
}

func setupMetrics(cfg *config.Config, job string) {
	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(job, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}
}
