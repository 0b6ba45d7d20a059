// Package records defines the ordered record type shared by every pipeline
// stage. A Record maps field names to field values (string or nil) while
// remembering the order in which fields were first set, so tabular output
// preserves source column order. Stages produce new Records rather than
// mutating ones owned by another stage.
package records

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Record is an ordered field-name → field-value mapping. Values are either
// string or nil (null). The zero value is not usable; use New.
type Record struct {
	keys []string
	vals map[string]any
}

// New returns an empty Record.
func New() *Record {
	return &Record{vals: make(map[string]any)}
}

// FromPairs builds a Record from alternating key/value strings. It exists
// mainly for tests and small fixtures; an odd trailing key gets a nil value.
func FromPairs(kv ...string) *Record {
	r := New()
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			r.Set(kv[i], kv[i+1])
		} else {
			r.Set(kv[i], nil)
		}
	}
	return r
}

// Set assigns v (string or nil) to key k. A new key is appended to the key
// order; an existing key keeps its position.
func (r *Record) Set(k string, v any) {
	if _, ok := r.vals[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.vals[k] = v
}

// Get returns the value for k and whether the key is present. A present key
// with a null value yields (nil, true).
func (r *Record) Get(k string) (any, bool) {
	v, ok := r.vals[k]
	return v, ok
}

// GetString returns the value for k as a string; missing keys and nulls
// yield "".
func (r *Record) GetString(k string) string {
	if s, ok := r.vals[k].(string); ok {
		return s
	}
	return ""
}

// Has reports whether k is present, null values included.
func (r *Record) Has(k string) bool {
	_, ok := r.vals[k]
	return ok
}

// Delete removes k. Unknown keys are a no-op.
func (r *Record) Delete(k string) {
	if _, ok := r.vals[k]; !ok {
		return
	}
	delete(r.vals, k)
	for i, key := range r.keys {
		if key == k {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Rename moves the value of old under the name new, preserving old's position
// in the key order. When new already exists, old's value wins and new keeps
// its original position. Returns false if old is absent.
func (r *Record) Rename(old, new string) bool {
	v, ok := r.vals[old]
	if !ok || old == new {
		return ok
	}
	if _, exists := r.vals[new]; exists {
		r.vals[new] = v
		r.Delete(old)
		return true
	}
	for i, key := range r.keys {
		if key == old {
			r.keys[i] = new
			break
		}
	}
	delete(r.vals, old)
	r.vals[new] = v
	return true
}

// Keys returns the field names in order. The slice is a copy.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// Clone returns a deep copy sharing no state with r.
func (r *Record) Clone() *Record {
	c := &Record{
		keys: make([]string, len(r.keys)),
		vals: make(map[string]any, len(r.vals)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

// SortKeys orders the fields lexicographically.
func (r *Record) SortKeys() {
	sort.Strings(r.keys)
}

// Fingerprint hashes keys and values in key order. Equal records (same keys,
// same order, same values) hash equal; nulls hash differently from "".
func (r *Record) Fingerprint() uint64 {
	var b strings.Builder
	for _, k := range r.keys {
		b.WriteString(k)
		b.WriteByte('\x1f')
		switch v := r.vals[k].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(v)
		}
		b.WriteByte('\x1e')
	}
	return xxh3.HashString(b.String())
}

// UnionKeys returns the union of keys across recs in first-seen order. It is
// the column set used for outputs that have no reference schema.
func UnionKeys(recs []*Record) []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, r := range recs {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}
