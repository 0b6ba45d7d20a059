package builtin

import (
	"strings"

	"catalogmerge/internal/records"
)

// keyMap translates the legacy Spanish column names to the canonical names
// the catalog import expects.
var keyMap = map[string]string{
	"Descripción": "Description",
	"Nombre":      "Name",
	"Categoría":   "Category",
	"Marca":       "Brand",
	"Precio":      "Price",
}

// dropOnCollision lists the legacy keys that are skipped entirely when their
// canonical counterpart is already present on the same record.
var dropOnCollision = map[string]string{
	"Descripción": "Description",
	"Nombre":      "Name",
}

// CanonicalKeys is the terminal key-translation stage. Per record it:
//
//  1. collects the canonical-target keys already present verbatim,
//  2. skips a legacy key from dropOnCollision when its counterpart is in
//     that set,
//  3. emits every remaining key under its mapped name (with the category
//     value rewritten from the catalog's "/" separator to the path
//     delimiter) or unchanged when unmapped,
//  4. sorts the output keys lexicographically.
//
// Repeated application is not supported: a second pass over output that
// reintroduces collisions may drop different keys. Run it once, last.
type CanonicalKeys struct{}

func (CanonicalKeys) Apply(in []*records.Record) []*records.Record {
	out := make([]*records.Record, len(in))
	for i, r := range in {
		out[i] = canonicalOne(r)
	}
	return out
}

func canonicalOne(r *records.Record) *records.Record {
	present := make(map[string]bool)
	for canonical := range canonicalTargets() {
		if r.Has(canonical) {
			present[canonical] = true
		}
	}

	res := records.New()
	for _, k := range r.Keys() {
		if canonical, ok := dropOnCollision[k]; ok && present[canonical] {
			continue
		}
		v, _ := r.Get(k)
		name := k
		if mapped, ok := keyMap[k]; ok {
			name = mapped
			v = translateValue(name, v)
		}
		res.Set(name, v)
	}
	res.SortKeys()
	return res
}

func translateValue(canonical string, v any) any {
	if canonical != "Category" {
		return v
	}
	if s, ok := v.(string); ok {
		return strings.ReplaceAll(s, ConflictChar, PathDelim)
	}
	return v
}

func canonicalTargets() map[string]struct{} {
	targets := make(map[string]struct{}, len(keyMap))
	for _, canonical := range keyMap {
		targets[canonical] = struct{}{}
	}
	return targets
}
