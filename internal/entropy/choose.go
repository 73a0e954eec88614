package entropy

import (
	"math"
	"math/rand"
)

// Weighted pairs a candidate with its selection weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// Choose picks one candidate with probability proportional to its weight.
// Zero, negative, NaN and infinite weights are never picked. Returns false when no
// candidate carries positive weight.
func Choose[T any](rng *rand.Rand, candidates []Weighted[T]) (T, bool) {
	var zero T

	total := 0.0
	for _, c := range candidates {
		total += usable(c.Weight)
	}
	if total <= 0 || math.IsInf(total, 0) {
		return zero, false
	}

	target := rng.Float64() * total
	last := -1
	for i, c := range candidates {
		w := usable(c.Weight)
		if w == 0 {
			continue
		}
		last = i
		if target < w {
			return c.Item, true
		}
		target -= w
	}

	// Floating point drift can leave target marginally above the sum.
	return candidates[last].Item, true
}

// Pick returns a uniformly random element of items, or false if empty.
func Pick[T any](rng *rand.Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rng.Intn(len(items))], true
}

func usable(w float64) float64 {
	if w > 0 && !math.IsNaN(w) && !math.IsInf(w, 1) {
		return w
	}
	return 0
}
