// Package reconcile joins the two catalog generations into one unified
// record set. The old dataset is keyed by SKU, the new one by MECA; matched
// records merge into a unified record keyed by RefId, new-only identifiers
// produce an intentionally sparse minimal record, and old-only records leave
// the primary stream under an explicit, named policy.
package reconcile

import (
	"strings"

	"catalogmerge/internal/normalize"
	"catalogmerge/internal/records"
	"catalogmerge/internal/transform/builtin"
)

// Policy names the two old-only behaviors found in the field. They are kept
// as separate variants on purpose; collapsing them is a product decision.
type Policy string

const (
	// ExportUnmatched routes old-only records to the review export.
	ExportUnmatched Policy = "export"
	// DiscardUnmatched drops old-only records with no audit trail.
	DiscardUnmatched Policy = "discard"
)

// Config holds the field conventions of one reconciliation run. Zero values
// get the catalog defaults from DefaultConfig.
type Config struct {
	OldKey     string // identifier of the old dataset
	NewKey     string // identifier of the new dataset
	UnifiedKey string // identifier of the unified output

	CategorySource string // new-side flat or pre-joined category value
	NameSource     string // new-side free-text ALL-CAPS description
	LegacyDesc     string // old-side description column
	CanonicalDesc  string // canonical description column
	PathField      string // unified category path column

	Unmatched  Policy
	Duplicates string // builtin.KeepFirst / KeepLast / MostComplete
}

func DefaultConfig() Config {
	return Config{
		OldKey:         "SKU",
		NewKey:         "MECA",
		UnifiedKey:     "RefId",
		CategorySource: "CATEGORIA",
		NameSource:     "DESCRIPCION",
		LegacyDesc:     "Descripción",
		CanonicalDesc:  "Description",
		PathField:      "Categoría",
		Unmatched:      ExportUnmatched,
		Duplicates:     builtin.KeepLast,
	}
}

// Stats are the operator-facing counts of one Merge call.
type Stats struct {
	Old     int // old records after duplicate collapse
	New     int // new records after duplicate collapse
	Matched int
	NewOnly int
	OldOnly int
	NoKey   int // records lacking the join identifier entirely
}

type Merger struct {
	cfg Config
}

func New(cfg Config) *Merger {
	def := DefaultConfig()
	if cfg.OldKey == "" {
		cfg.OldKey = def.OldKey
	}
	if cfg.NewKey == "" {
		cfg.NewKey = def.NewKey
	}
	if cfg.UnifiedKey == "" {
		cfg.UnifiedKey = def.UnifiedKey
	}
	if cfg.CategorySource == "" {
		cfg.CategorySource = def.CategorySource
	}
	if cfg.NameSource == "" {
		cfg.NameSource = def.NameSource
	}
	if cfg.LegacyDesc == "" {
		cfg.LegacyDesc = def.LegacyDesc
	}
	if cfg.CanonicalDesc == "" {
		cfg.CanonicalDesc = def.CanonicalDesc
	}
	if cfg.PathField == "" {
		cfg.PathField = def.PathField
	}
	if cfg.Unmatched == "" {
		cfg.Unmatched = def.Unmatched
	}
	if cfg.Duplicates == "" {
		cfg.Duplicates = def.Duplicates
	}
	return &Merger{cfg: cfg}
}

// Merge joins old and new. It returns the unified record set in old-then-new
// encounter order, the records diverted for review (old-only records under
// ExportUnmatched plus records missing their join identifier), and counts.
// Inputs are not mutated; identifiers compare as raw strings.
func (m *Merger) Merge(old, new []*records.Record) (unified, unmatched []*records.Record, stats Stats) {
	cfg := m.cfg

	old, noKeyOld := partitionKeyed(old, cfg.OldKey)
	new, noKeyNew := partitionKeyed(new, cfg.NewKey)
	stats.NoKey = len(noKeyOld) + len(noKeyNew)
	unmatched = append(unmatched, noKeyOld...)
	unmatched = append(unmatched, noKeyNew...)

	old = builtin.DeDup{Keys: []string{cfg.OldKey}, Policy: cfg.Duplicates}.Apply(old)
	new = builtin.DeDup{Keys: []string{cfg.NewKey}, Policy: cfg.Duplicates}.Apply(new)
	stats.Old, stats.New = len(old), len(new)

	oldIDs := make(map[string]struct{}, len(old))
	for _, r := range old {
		oldIDs[r.GetString(cfg.OldKey)] = struct{}{}
	}
	newByID := make(map[string]*records.Record, len(new))
	for _, r := range new {
		newByID[r.GetString(cfg.NewKey)] = r
	}

	for _, orec := range old {
		id := orec.GetString(cfg.OldKey)
		nrec, ok := newByID[id]
		if !ok {
			stats.OldOnly++
			if cfg.Unmatched == ExportUnmatched {
				unmatched = append(unmatched, orec.Clone())
			}
			continue
		}
		stats.Matched++
		unified = append(unified, m.merged(orec, nrec))
	}

	for _, nrec := range new {
		id := nrec.GetString(cfg.NewKey)
		if _, ok := oldIDs[id]; ok {
			continue
		}
		stats.NewOnly++
		unified = append(unified, m.minimal(nrec))
	}
	return unified, unmatched, stats
}

// merged builds the unified record for a matched identifier: a copy of the
// old record with the join key renamed to the unified key, the category path
// and display name recomputed from the new record, and the legacy
// description renamed to its canonical column (old value wins).
func (m *Merger) merged(orec, nrec *records.Record) *records.Record {
	cfg := m.cfg
	r := orec.Clone()
	r.Rename(cfg.OldKey, cfg.UnifiedKey)
	r.Set(cfg.PathField, titlePath(nrec.GetString(cfg.CategorySource)))
	r.Set("Name", normalize.CamelFromUpper(nrec.GetString(cfg.NameSource)))
	if r.Has(cfg.LegacyDesc) {
		r.Rename(cfg.LegacyDesc, cfg.CanonicalDesc)
	}
	return r
}

// minimal is the record for a new-only identifier. It is intentionally
// sparse: identifier, category path, display name, empty description.
func (m *Merger) minimal(nrec *records.Record) *records.Record {
	cfg := m.cfg
	r := records.New()
	r.Set(cfg.UnifiedKey, nrec.GetString(cfg.NewKey))
	r.Set(cfg.PathField, titlePath(nrec.GetString(cfg.CategorySource)))
	r.Set("Name", normalize.CamelFromUpper(nrec.GetString(cfg.NameSource)))
	r.Set(cfg.CanonicalDesc, "")
	return r
}

// titlePath title-cases every segment of a ">"-joined category value,
// dropping segments that are blank.
func titlePath(path string) string {
	var segs []string
	for _, seg := range strings.Split(path, builtin.PathDelim) {
		if seg = normalize.TitleSegment(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return strings.Join(segs, builtin.PathDelim)
}

// partitionKeyed splits recs into those carrying field and those without it
// or with a null there; the latter cannot participate in the join.
func partitionKeyed(recs []*records.Record, field string) (keyed, keyless []*records.Record) {
	for _, r := range recs {
		if v, ok := r.Get(field); ok && v != nil && v != "" {
			keyed = append(keyed, r)
		} else {
			keyless = append(keyless, r.Clone())
		}
	}
	return keyed, keyless
}
