package dice

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a content hash of the unordered set of (outcome, weight) pairs.
//
// Postcondition: a.Equal(b) implies a.Hash() == b.Hash().
func (d *Distribution) Hash() uint64 {
	var h uint64
	var buf [16]byte
	for _, e := range d.events {
		binary.LittleEndian.PutUint64(buf[:8], floatBits(e.Outcome))
		binary.LittleEndian.PutUint64(buf[8:], floatBits(e.Weight))
		h += xxhash.Sum64(buf[:])
	}
	return h
}

// floatBits folds -0 onto +0, which compare equal.
func floatBits(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

// Set holds distinct distributions, deduplicated by Equal. Distributions are
// not comparable, so they cannot key a Go map directly; Set buckets them by Hash.
//
// Distributions added to a Set must not be mutated afterwards.
type Set struct {
	buckets map[uint64][]*Distribution
	n       int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{buckets: make(map[uint64][]*Distribution)}
}

// Add inserts d unless an equal distribution is already present, and reports
// whether it was inserted.
func (s *Set) Add(d *Distribution) bool {
	h := d.Hash()
	for _, existing := range s.buckets[h] {
		if existing.Equal(d) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], d)
	s.n++
	return true
}

// Contains reports whether a distribution equal to d is in the set.
func (s *Set) Contains(d *Distribution) bool {
	for _, existing := range s.buckets[d.Hash()] {
		if existing.Equal(d) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct distributions in the set.
func (s *Set) Len() int { return s.n }
