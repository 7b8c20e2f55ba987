// Package dice provides exact discrete probability distributions for dice-roll
// expressions such as "2d6+3", and the algebra that combines, compares,
// normalizes, and samples them.
package dice

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrZeroSpace is returned by operations that divide by the total weight of a
// distribution when that total is zero (including the empty distribution).
var ErrZeroSpace = errors.New("dice: distribution has zero total weight")

// ErrNegativeSpace is returned by Sample when the total weight is negative.
// AddEvent accepts negative weights, but such a distribution has no
// probability interpretation.
var ErrNegativeSpace = errors.New("dice: distribution has negative total weight")

// Event is a single outcome and the weight accumulated on it.
type Event struct {
	Outcome float64 `yaml:"outcome"`
	Weight  float64 `yaml:"weight"`
}

// Distribution maps outcomes to non-negative weights. Weights are raw counts of
// equally likely elementary outcomes unless the distribution was normalized.
//
// Invariant: every outcome appears at most once; entries keep insertion order,
// and every accumulation walks them in that order so results are reproducible
// bit for bit.
//
// The zero value is a valid empty distribution.
type Distribution struct {
	events []Event
	index  map[float64]int
}

// New returns an empty distribution.
//
// Postcondition: Len() == 0 and SpaceSize() == 0.
func New() *Distribution {
	return &Distribution{}
}

// Fixed returns a distribution certain to produce v.
//
// Postcondition: Map() == {v: 1}.
func Fixed(v float64) *Distribution {
	d := New()
	d.AddEvent(v, 1)
	return d
}

// FromEvents builds a distribution by calling AddEvent for each event in order.
// Repeated outcomes accumulate.
func FromEvents(events ...Event) *Distribution {
	d := New()
	for _, e := range events {
		d.AddEvent(e.Outcome, e.Weight)
	}
	return d
}

// FromMap builds a distribution from an explicit outcome->weight mapping.
// Entries are inserted in ascending outcome order so that the result does not
// depend on map iteration order.
func FromMap(m map[float64]float64) *Distribution {
	outcomes := make([]float64, 0, len(m))
	for o := range m {
		outcomes = append(outcomes, o)
	}
	sort.Float64s(outcomes)
	d := New()
	for _, o := range outcomes {
		d.AddEvent(o, m[o])
	}
	return d
}

// AddEvent inserts weight at outcome, or adds it to the weight already there.
// The weight is not validated.
func (d *Distribution) AddEvent(outcome, weight float64) {
	if d.index == nil {
		d.index = make(map[float64]int)
	}
	if i, ok := d.index[outcome]; ok {
		d.events[i].Weight += weight
		return
	}
	d.index[outcome] = len(d.events)
	d.events = append(d.events, Event{Outcome: outcome, Weight: weight})
}

// Len returns the number of distinct outcomes.
func (d *Distribution) Len() int {
	return len(d.events)
}

// Weight returns the weight at outcome and whether the outcome is present.
func (d *Distribution) Weight(outcome float64) (float64, bool) {
	i, ok := d.index[outcome]
	if !ok {
		return 0, false
	}
	return d.events[i].Weight, true
}

// Events returns a copy of the entries in insertion order.
func (d *Distribution) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Outcomes returns the outcomes in insertion order.
func (d *Distribution) Outcomes() []float64 {
	out := make([]float64, len(d.events))
	for i, e := range d.events {
		out[i] = e.Outcome
	}
	return out
}

// Map returns a copy of the full outcome->weight mapping.
func (d *Distribution) Map() map[float64]float64 {
	m := make(map[float64]float64, len(d.events))
	for _, e := range d.events {
		m[e.Outcome] = e.Weight
	}
	return m
}

// Equal reports whether d and other hold exactly the same outcome->weight
// mapping. Weights are compared without tolerance. A nil other is never equal.
func (d *Distribution) Equal(other *Distribution) bool {
	if other == nil {
		return false
	}
	if len(d.events) != len(other.events) {
		return false
	}
	for _, e := range d.events {
		w, ok := other.Weight(e.Outcome)
		if !ok || w != e.Weight {
			return false
		}
	}
	return true
}

// String renders the distribution as "{o:w, ...}" in insertion order.
func (d *Distribution) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range d.events {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(e.Outcome))
		b.WriteByte(':')
		b.WriteString(formatFloat(e.Weight))
	}
	b.WriteByte('}')
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// nonZeroSpace returns SpaceSize, or ErrZeroSpace when it is zero.
func (d *Distribution) nonZeroSpace() (float64, error) {
	total := d.SpaceSize()
	if total == 0 {
		return 0, fmt.Errorf("%w (%d outcomes)", ErrZeroSpace, len(d.events))
	}
	return total, nil
}
