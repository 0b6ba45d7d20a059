// Command translate prepares a unified catalog export for the external
// catalog: composite columns are split, the CATEGORIA/SUBCATEGORIA/LINEA
// triple is folded into a single Categoría path, and legacy column names are
// rewritten to their canonical forms. Records whose hierarchy fields carry the
// external path separator land in the <out>_conflictos review file.
package main

import (
	"log"
	"time"

	"github.com/google/uuid"

	"catalogmerge/internal/config"
	"catalogmerge/internal/decode"
	"catalogmerge/internal/metrics"
	"catalogmerge/internal/metrics/prompush"
	"catalogmerge/internal/review"
	"catalogmerge/internal/transform"
	"catalogmerge/internal/transform/builtin"
)

func main() {
	cfg := config.Load()
	runID := uuid.NewString()
	job := "translate"
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
	log.Printf("translate: run=%s in=%s out=%s", runID, in, cfg.OutPath)

	recs, rows, err := decode.ReadFile(in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	log.Printf("translate: decoded %d rows", rows)

	cp := builtin.NewCategoryPath()
	chain := transform.Chain{builtin.Trim{}, builtin.SplitComposite{}, cp, builtin.CanonicalKeys{}}
	out := chain.Apply(recs)

	rev := review.New(review.PathFor(cfg.OutPath, "_conflictos"))
	for _, r := range cp.Conflicts() {
		rev.AddUnique("separador_en_jerarquia", r)
	}
	if err := rev.Flush(); err != nil {
		log.Fatalf("write review export: %v", err)
	}
	if err := decode.WriteCSVFile(cfg.OutPath, out); err != nil {
		log.Fatalf("write output: %v", err)
	}

	log.Printf("translate: run=%s processed=%d written=%d conflicts=%d",
		runID, rows, len(out), rev.Len())

	metrics.RecordRecords(job, "processed", int64(rows))
	metrics.RecordRecords(job, "conflicts", int64(rev.Len()))
	metrics.RecordStage(job, "translate", nil, time.Since(start))
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
