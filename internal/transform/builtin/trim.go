// Package builtin contains the reusable record transformers of the pipeline.
package builtin

import (
	"strings"

	"catalogmerge/internal/records"
)

// Trim strips edge whitespace from every string value and repairs the
// mis-decoded non-breaking space ("Â ") that spreadsheet exports produce.
// Records are modified in place; Trim runs before any stage that compares
// or splits values.
type Trim struct{}

func (Trim) Apply(in []*records.Record) []*records.Record {
	for _, r := range in {
		for _, k := range r.Keys() {
			if v, ok := r.Get(k); ok {
				if s, ok := v.(string); ok {
					r.Set(k, strings.TrimSpace(strings.ReplaceAll(s, " ", " ")))
				}
			}
		}
	}
	return in
}
