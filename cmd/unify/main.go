// Command unify reconciles the old (SKU-keyed) and new (MECA-keyed) catalog
// datasets into one unified CSV keyed by RefId. Old-only records go to the
// <out>_no_unificados review file under the default policy; pass
// -unmatched=discard for the audit-free variant.
package main

import (
	"log"
	"time"

	"github.com/google/uuid"

	"catalogmerge/internal/config"
	"catalogmerge/internal/decode"
	"catalogmerge/internal/metrics"
	"catalogmerge/internal/metrics/prompush"
	"catalogmerge/internal/reconcile"
	"catalogmerge/internal/records"
	"catalogmerge/internal/review"
	"catalogmerge/internal/transform"
	"catalogmerge/internal/transform/builtin"
)

func main() {
	cfg := config.Load()
	runID := uuid.NewString()
	job := "unify"
	setupMetrics(cfg, job)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	start := time.Now()
	log.Printf("unify: run=%s old=%s new=%s out=%s", runID, cfg.OldPath, cfg.NewPath, cfg.OutPath)

	oldRecs, oldRows, err := decode.ReadFile(cfg.OldPath)
	if err != nil {
		log.Fatalf("read old dataset: %v", err)
	}
	newRecs, newRows, err := decode.ReadFile(cfg.NewPath)
	if err != nil {
		log.Fatalf("read new dataset: %v", err)
	}
	log.Printf("unify: decoded old=%d new=%d rows", oldRows, newRows)

	// Field-level cleanup before the identity-level join.
	chain := transform.Chain{builtin.Trim{}, builtin.SplitComposite{}}
	oldRecs = chain.Apply(oldRecs)
	newRecs = chain.Apply(newRecs)

	mcfg := reconcile.DefaultConfig()
	mcfg.Unmatched = reconcile.Policy(cfg.UnmatchedPolicy)
	mcfg.Duplicates = cfg.DuplicatePolicy

	unified, unmatched, stats := reconcile.New(mcfg).Merge(oldRecs, newRecs)

	rev := review.New(review.PathFor(cfg.OutPath, "_no_unificados"))
	rev.SetColumns(records.UnionKeys(oldRecs))
	for _, r := range unmatched {
		rev.Add("sin_correspondencia", r)
	}
	if err := rev.Flush(); err != nil {
		log.Fatalf("write review export: %v", err)
	}
	if err := decode.WriteCSVFile(cfg.OutPath, unified); err != nil {
		log.Fatalf("write unified output: %v", err)
	}

	log.Printf("unify: run=%s processed=%d matched=%d new_only=%d old_only=%d no_key=%d unified=%d review=%d",
		runID, stats.Old+stats.New, stats.Matched, stats.NewOnly, stats.OldOnly, stats.NoKey, len(unified), rev.Len())

	metrics.RecordRecords(job, "processed", int64(stats.Old+stats.New))
	metrics.RecordRecords(job, "matched", int64(stats.Matched))
	metrics.RecordRecords(job, "new_only", int64(stats.NewOnly))
	metrics.RecordRecords(job, "unmatched", int64(stats.OldOnly))
	metrics.RecordStage(job, "merge", nil, time.Since(start))
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
