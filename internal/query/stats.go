package query

import (
	"math"
	"slices"
)

// apply collapses a series of per-group measurements with op.
// xs must not be empty.
func apply(op Operation, xs []float64) (Value, error) {
	switch op {
	case OpMean:
		return Value{mean(xs)}, nil
	case OpMedian:
		return Value{median(xs)}, nil
	case OpMode:
		return mode(xs), nil
	case OpRange:
		return Value{slices.Max(xs) - slices.Min(xs)}, nil
	case OpStdev:
		return Value{stdev(xs)}, nil
	case OpTotal:
		return Value{sum(xs)}, nil
	case OpMax:
		return Value{slices.Max(xs)}, nil
	case OpMin:
		return Value{slices.Min(xs)}, nil
	default:
		return nil, &InvalidTokenError{Kind: "operation", Token: string(op)}
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func mean(xs []float64) float64 {
	return sum(xs) / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mode returns every most frequent value, ascending.
func mode(xs []float64) Value {
	counts := make(map[float64]int, len(xs))
	best := 0
	for _, x := range xs {
		counts[x]++
		best = max(best, counts[x])
	}
	var out Value
	for x, n := range counts {
		if n == best {
			out = append(out, x)
		}
	}
	slices.Sort(out)
	return out
}

// stdev is the sample standard deviation. A single value has none and
// reports 0.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
