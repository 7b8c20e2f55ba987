package dice

import "fmt"

// Sample draws one outcome from d with probability proportional to its
// weight. Weights need not be normalized. Entries with zero weight are never
// drawn.
//
// Precondition: src must be non-nil.
// Returns ErrZeroSpace when SpaceSize() == 0 and ErrNegativeSpace when it is
// negative.
// Postcondition: the returned outcome is present in d.
func (d *Distribution) Sample(src Source) (float64, error) {
	total, err := d.nonZeroSpace()
	if err != nil {
		return 0, err
	}
	if total < 0 {
		return 0, fmt.Errorf("%w (%g)", ErrNegativeSpace, total)
	}

	target := src.Float64() * total
	var cumulative float64
	last := -1
	for i, e := range d.events {
		if e.Weight <= 0 {
			continue
		}
		cumulative += e.Weight
		last = i
		if target < cumulative {
			return e.Outcome, nil
		}
	}
	// Rounding can leave target just past the final cumulative weight.
	if last < 0 {
		return 0, ErrZeroSpace
	}
	return d.events[last].Outcome, nil
}

// Roll samples d using the unseeded crypto/rand source.
func (d *Distribution) Roll() (float64, error) {
	return d.Sample(defaultSource)
}
