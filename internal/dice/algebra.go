package dice

// BinaryOp maps a pair of outcomes, one from each operand, to the outcome of
// the combined distribution.
type BinaryOp func(a, b float64) float64

// Combine enumerates the full cross product of a and b. Each pair of entries
// contributes weight wa*wb at outcome op(oa, ob) of a new distribution.
// Neither operand is modified.
//
// Entries of a form the outer loop and entries of b the inner loop, both in
// insertion order, so colliding outcomes always accumulate in the same order.
//
// Postcondition: result.SpaceSize() == a.SpaceSize() * b.SpaceSize() up to
// floating-point rounding.
func Combine(a, b *Distribution, op BinaryOp) *Distribution {
	result := New()
	for _, ea := range a.events {
		for _, eb := range b.events {
			result.AddEvent(op(ea.Outcome, eb.Outcome), ea.Weight*eb.Weight)
		}
	}
	return result
}

func indicator(holds bool) float64 {
	if holds {
		return 1
	}
	return 0
}

func sum(a, b float64) float64  { return a + b }
func diff(a, b float64) float64 { return a - b }
func lt(a, b float64) float64   { return indicator(a < b) }
func le(a, b float64) float64   { return indicator(a <= b) }
func gt(a, b float64) float64   { return indicator(a > b) }
func ge(a, b float64) float64   { return indicator(a >= b) }

// Add returns the distribution of a+b.
func Add(a, b *Distribution) *Distribution { return Combine(a, b, sum) }

// Subtract returns the distribution of a-b.
func Subtract(a, b *Distribution) *Distribution { return Combine(a, b, diff) }

// LessThan returns a distribution over {0, 1}: the weight at 1 is the total
// weight of pairs where a < b, the weight at 0 that of all other pairs.
func LessThan(a, b *Distribution) *Distribution { return Combine(a, b, lt) }

// LessOrEqual is LessThan for the relation a <= b.
func LessOrEqual(a, b *Distribution) *Distribution { return Combine(a, b, le) }

// GreaterThan is LessThan for the relation a > b.
func GreaterThan(a, b *Distribution) *Distribution { return Combine(a, b, gt) }

// GreaterOrEqual is LessThan for the relation a >= b.
func GreaterOrEqual(a, b *Distribution) *Distribution { return Combine(a, b, ge) }

// Operators maps operator names to the combining functions above. It is used by
// callers that select an operator at runtime, such as the CLI and Lua module.
var Operators = map[string]func(a, b *Distribution) *Distribution{
	"add": Add,
	"sub": Subtract,
	"lt":  LessThan,
	"le":  LessOrEqual,
	"gt":  GreaterThan,
	"ge":  GreaterOrEqual,
}
