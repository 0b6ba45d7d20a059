package builtin

import (
	"sort"
	"strings"

	"catalogmerge/internal/records"
)

// Duplicate-identifier policies. Generic map insertion would silently give
// keep-last semantics; the policy is explicit instead so each stage can
// document what it does with duplicate identifiers.
const (
	KeepFirst    = "keep-first"
	KeepLast     = "keep-last"
	MostComplete = "most-complete"
)

// DeDup collapses duplicate records by a configured business key and keeps
// one winner per key:
//
//   - "keep-first"   : earliest occurrence in the batch
//   - "keep-last"    : latest occurrence in the batch (default)
//   - "most-complete": record with the most non-empty fields; ties break
//     by keep-last
//
// Records missing any key field are outside the de-dup domain and are
// appended after the winners in their original order.
type DeDup struct {
	Keys   []string
	Policy string
}

func (d DeDup) Apply(in []*records.Record) []*records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = KeepLast
	}

	type slot struct {
		rec   *records.Record
		index int
		score int
	}
	winners := make(map[string]slot, len(in))

	keyOf := func(r *records.Record) (string, bool) {
		var b strings.Builder
		for i, k := range d.Keys {
			v, ok := r.Get(k)
			if !ok {
				return "", false
			}
			if i > 0 {
				b.WriteByte('\x1f')
			}
			if s, isStr := v.(string); isStr {
				b.WriteString(s)
			} else {
				b.WriteByte('\x00')
			}
		}
		return b.String(), true
	}

	scoreOf := func(r *records.Record) int {
		score := 0
		for _, k := range r.Keys() {
			if r.GetString(k) != "" {
				score++
			}
		}
		return score
	}

	for i, r := range in {
		key, ok := keyOf(r)
		if !ok {
			continue
		}
		switch policy {
		case KeepFirst:
			if _, exists := winners[key]; !exists {
				winners[key] = slot{rec: r, index: i}
			}
		case MostComplete:
			s := slot{rec: r, index: i, score: scoreOf(r)}
			prev, exists := winners[key]
			if !exists || s.score > prev.score || (s.score == prev.score && s.index > prev.index) {
				winners[key] = s
			}
		default: // keep-last
			winners[key] = slot{rec: r, index: i}
		}
	}

	// Winners in ascending original position, then keyless pass-throughs.
	slots := make([]slot, 0, len(winners))
	for _, s := range winners {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([]*records.Record, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.rec)
	}
	for _, r := range in {
		if _, ok := keyOf(r); !ok {
			out = append(out, r)
		}
	}
	return out
}
