// Package transform defines the batch transformer contract used between
// decoding and output. Transformers receive a whole batch and return a new
// batch; record cardinality is transformer-specific.
package transform

import "catalogmerge/internal/records"

type Transformer interface {
	Apply(in []*records.Record) []*records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []*records.Record) []*records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
