package builtin

import (
	"strings"

	"catalogmerge/internal/records"

	"github.com/zeebo/xxh3"
)

// Field names of the flat category columns and the joined path column.
const (
	FieldTop  = "CATEGORIA"
	FieldSub  = "SUBCATEGORIA"
	FieldLine = "LINEA"
	FieldPath = "Categoría"

	// PathDelim joins hierarchy levels in the output path. ConflictChar is
	// the external catalog's own path separator; a segment containing it
	// would be misread as extra hierarchy levels downstream.
	PathDelim    = ">"
	ConflictChar = "/"
)

// CategoryPath merges the three flat category columns into one delimited
// path column, keeping only non-empty segments in (top, sub, line) order.
// The path column takes the position of the first of the three source
// columns on each record.
//
// When a subcategory or line value contains ConflictChar, a copy of the
// original untransformed record is queued for review, deduplicated by the
// pair of conflicting values; the record itself still gets a best-effort
// path in the main output.
type CategoryPath struct {
	conflicts []*records.Record
	seen      map[uint64]struct{}
}

func NewCategoryPath() *CategoryPath {
	return &CategoryPath{seen: make(map[uint64]struct{})}
}

func (t *CategoryPath) Apply(in []*records.Record) []*records.Record {
	out := make([]*records.Record, len(in))
	for i, r := range in {
		t.flag(r)
		out[i] = joinOne(r)
	}
	return out
}

// Conflicts returns the review queue accumulated so far, one record per
// distinct (conflicting-sub, conflicting-line) pair.
func (t *CategoryPath) Conflicts() []*records.Record {
	return t.conflicts
}

func (t *CategoryPath) flag(r *records.Record) {
	sub, line := r.GetString(FieldSub), r.GetString(FieldLine)
	if !strings.Contains(sub, ConflictChar) {
		sub = ""
	}
	if !strings.Contains(line, ConflictChar) {
		line = ""
	}
	if sub == "" && line == "" {
		return
	}
	key := xxh3.HashString(sub + "\x1f" + line)
	if _, dup := t.seen[key]; dup {
		return
	}
	t.seen[key] = struct{}{}
	t.conflicts = append(t.conflicts, r.Clone())
}

func joinOne(r *records.Record) *records.Record {
	var segs []string
	for _, f := range []string{FieldTop, FieldSub, FieldLine} {
		if v := r.GetString(f); v != "" {
			segs = append(segs, v)
		}
	}

	res := records.New()
	placed := false
	for _, k := range r.Keys() {
		switch k {
		case FieldTop, FieldSub, FieldLine:
			if !placed {
				res.Set(FieldPath, strings.Join(segs, PathDelim))
				placed = true
			}
		default:
			v, _ := r.Get(k)
			res.Set(k, v)
		}
	}
	return res
}
