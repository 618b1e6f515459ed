package query

import (
	"cmp"
	"strconv"
	"strings"
)

// Result is either a *Scalar or a *Series.
type Result interface {
	isResult()
}

// Value is the outcome of measuring or aggregating. It holds exactly one
// number, except for mode, which returns every tied value in ascending
// order.
type Value []float64

// Scalar is the result of an Aggregate.
type Scalar struct {
	Op     Operation
	Target Target
	Value  Value
}

// Series is the result of a Breakdown or GroupedAggregate: one row per
// combination of the final groups, ordered by key.
type Series struct {
	Op     Operation // empty for a Breakdown
	Target Target
	Groups []Group
	Rows   []Row
}

type Row struct {
	Keys  []Key // one per group, in Series.Groups order
	Value Value
}

// Key labels one group value. Keys order by rank first so that dates and
// indices sort chronologically/numerically, then by label.
type Key struct {
	Label string
	rank  int64
}

func (*Scalar) isResult() {}
func (*Series) isResult() {}

func compareKeys(a, b []Key) int {
	for i := range a {
		if c := cmp.Compare(a[i].rank, b[i].rank); c != 0 {
			return c
		}
		if c := strings.Compare(a[i].Label, b[i].Label); c != 0 {
			return c
		}
	}
	return 0
}

// Levels returns the distinct labels of one grouping level in row order.
func (s *Series) Levels(level int) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, r := range s.Rows {
		l := r.Keys[level].Label
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	return labels
}

// Lookup finds the value of the row whose labels match exactly.
func (s *Series) Lookup(labels ...string) (Value, bool) {
	for _, r := range s.Rows {
		if len(r.Keys) != len(labels) {
			continue
		}
		match := true
		for i, k := range r.Keys {
			if k.Label != labels[i] {
				match = false
				break
			}
		}
		if match {
			return r.Value, true
		}
	}
	return nil, false
}

func (v Value) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
