package builtin

import (
	"strings"

	"catalogmerge/internal/normalize"
	"catalogmerge/internal/records"
)

// SplitComposite expands fields that pack several logical columns into one
// comma-joined key/value pair, e.g. key "Ancho, Alto" with value "10, 20".
// Labels and values are split on commas, blanks dropped after trimming, and
// paired positionally; the shorter list truncates the pairing. Each label is
// sanitized with normalize.Key. Fields without a comma in the name pass
// through unchanged, as does a composite field whose split yields no pairs.
// Output cardinality equals input cardinality.
type SplitComposite struct{}

func (SplitComposite) Apply(in []*records.Record) []*records.Record {
	out := make([]*records.Record, len(in))
	for i, r := range in {
		out[i] = splitOne(r)
	}
	return out
}

func splitOne(r *records.Record) *records.Record {
	res := records.New()
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		if !strings.Contains(k, ",") {
			res.Set(k, v)
			continue
		}
		labels := splitNonBlank(k)
		values := splitNonBlank(r.GetString(k))
		n := min(len(labels), len(values))
		if n == 0 {
			// Malformed composite field: pass through unchanged.
			res.Set(k, v)
			continue
		}
		for j := 0; j < n; j++ {
			res.Set(normalize.Key(labels[j]), values[j])
		}
	}
	return res
}

func splitNonBlank(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
