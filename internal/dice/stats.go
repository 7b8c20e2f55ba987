package dice

import (
	"math"
	"sort"
)

// Series is the pair of parallel sequences a chart renderer needs: outcomes
// sorted ascending and each outcome's share of the total weight in percent.
type Series struct {
	Outcomes    []float64
	Percentages []float64
}

// neumaier accumulates a compensated floating-point sum.
type neumaier struct {
	sum, c float64
}

func (n *neumaier) add(x float64) {
	t := n.sum + x
	if math.Abs(n.sum) >= math.Abs(x) {
		n.c += (n.sum - t) + x
	} else {
		n.c += (x - t) + n.sum
	}
	n.sum = t
}

func (n *neumaier) total() float64 { return n.sum + n.c }

// SpaceSize returns the sum of all weights. For distributions built only from
// dice and constants this is the number of equally likely elementary outcomes,
// e.g. 16 for "2d4". An empty distribution has space size 0.
func (d *Distribution) SpaceSize() float64 {
	var acc neumaier
	for _, e := range d.events {
		acc.add(e.Weight)
	}
	return acc.total()
}

// ExpectedValue returns the weighted mean of the outcomes.
//
// Returns ErrZeroSpace when SpaceSize() == 0.
func (d *Distribution) ExpectedValue() (float64, error) {
	total, err := d.nonZeroSpace()
	if err != nil {
		return 0, err
	}
	var acc neumaier
	for _, e := range d.events {
		acc.add(e.Outcome * e.Weight)
	}
	return acc.total() / total, nil
}

// Normalized returns a copy of d whose weights are rescaled to sum to target.
// The expected value is preserved.
//
// Returns ErrZeroSpace when SpaceSize() == 0.
// Postcondition: result.SpaceSize() == target up to floating-point rounding.
func (d *Distribution) Normalized(target float64) (*Distribution, error) {
	total, err := d.nonZeroSpace()
	if err != nil {
		return nil, err
	}
	result := New()
	for _, e := range d.events {
		result.AddEvent(e.Outcome, e.Weight*target/total)
	}
	return result, nil
}

// Series returns d normalized to 100 as parallel outcome/percentage slices,
// ordered by ascending outcome.
//
// Returns ErrZeroSpace when SpaceSize() == 0.
func (d *Distribution) Series() (Series, error) {
	pct, err := d.Normalized(100)
	if err != nil {
		return Series{}, err
	}
	events := pct.Events()
	sort.SliceStable(events, func(i, j int) bool { return events[i].Outcome < events[j].Outcome })
	s := Series{
		Outcomes:    make([]float64, len(events)),
		Percentages: make([]float64, len(events)),
	}
	for i, e := range events {
		s.Outcomes[i] = e.Outcome
		s.Percentages[i] = e.Weight
	}
	return s, nil
}
