package dice

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidExpression is wrapped by every error Parse returns.
var ErrInvalidExpression = errors.New("dice: invalid expression")

// Upper bounds on a single dice group. Parse cost grows with count times the
// size of the accumulated distribution, so unbounded groups could run for
// minutes on a short input.
const (
	MaxDice  = 1000
	MaxSides = 100_000
)

// ParseError describes why a dice expression could not be parsed.
type ParseError struct {
	Expr   string // original input string
	Token  string // offending token; empty when the whole expression is at fault
	Reason string
	Err    error // underlying conversion error, if any
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("dice: invalid expression %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("dice: invalid expression %q: term %q: %s", e.Expr, e.Token, e.Reason)
}

// Unwrap exposes ErrInvalidExpression and the underlying conversion error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidExpression}
	}
	return []error{ErrInvalidExpression, e.Err}
}

// Term is one signed term of a dice expression: either a constant, or a group
// of Count dice with Sides faces each.
type Term struct {
	Raw      string  // token the term was parsed from
	Constant float64 // value of a constant term; sign included
	Count    int     // number of dice; 0 for constants
	Sides    int     // faces per die; 0 for constants
	Sign     int     // +1 or -1 for dice groups
}

// IsDice reports whether t is a dice group rather than a constant.
func (t Term) IsDice() bool { return t.Sides > 0 }

// scanState is the position of the term scanner within "[+-]? digit* [dD]? digit*".
type scanState int

const (
	scanSign scanState = iota
	scanCount
	scanMarker
	scanSides
	scanDone
)

// matchTerm returns the length of the longest term prefix of s. Every part of
// the pattern is optional, so the result may be 0.
func matchTerm(s string) int {
	i := 0
	for state := scanSign; state != scanDone; {
		switch state {
		case scanSign:
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			state = scanCount
		case scanCount:
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			state = scanMarker
		case scanMarker:
			if i < len(s) && isMarker(s[i]) {
				i++
			}
			state = scanSides
		case scanSides:
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			state = scanDone
		}
	}
	return i
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isMarker(c byte) bool { return c == 'd' || c == 'D' }

// Tokenize removes all whitespace from expr and splits it into terms. At each
// position the longest "[+-]? digit* [dD]? digit*" match is taken; where nothing
// matches, the character is skipped. Empty matches never become tokens.
//
// Examples: "1d4 - 1d4" → ["1d4" "-1d4"]; "d4+2" → ["d4" "+2"].
func Tokenize(expr string) []string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)

	var tokens []string
	for i := 0; i < len(s); {
		n := matchTerm(s[i:])
		if n == 0 {
			i++
			continue
		}
		tokens = append(tokens, s[i:i+n])
		i += n
	}
	return tokens
}

// ParseTerms tokenizes expr and converts each token into a Term.
//
// Postcondition: Returns at least one Term, or an error wrapping
// ErrInvalidExpression.
func ParseTerms(expr string) ([]Term, error) {
	tokens := Tokenize(expr)
	if len(tokens) == 0 {
		return nil, &ParseError{Expr: expr, Reason: "no terms"}
	}
	terms := make([]Term, 0, len(tokens))
	for _, tok := range tokens {
		t, err := parseTerm(expr, tok)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

func parseTerm(expr, tok string) (Term, error) {
	fail := func(reason string, err error) (Term, error) {
		return Term{}, &ParseError{Expr: expr, Token: tok, Reason: reason, Err: err}
	}

	marker := strings.IndexAny(tok, "dD")
	if marker < 0 {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fail("invalid constant", err)
		}
		return Term{Raw: tok, Constant: v}, nil
	}

	sign := 1
	if strings.HasPrefix(tok, "-") {
		sign = -1
	}
	clean := strings.TrimLeft(tok, "+-")
	marker = strings.IndexAny(clean, "dD")
	countStr, sidesStr := clean[:marker], clean[marker+1:]

	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return fail("invalid die count", err)
		}
		count = n
	}
	if count > MaxDice {
		return fail(fmt.Sprintf("die count must be <= %d", MaxDice), nil)
	}

	if sidesStr == "" {
		return fail("missing die sides", nil)
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return fail("invalid die sides", err)
	}
	if sides < 1 {
		return fail("die sides must be >= 1", nil)
	}
	if sides > MaxSides {
		return fail(fmt.Sprintf("die sides must be <= %d", MaxSides), nil)
	}

	return Term{Raw: tok, Count: count, Sides: sides, Sign: sign}, nil
}

// Die returns the distribution of a single fair die: weight 1 on each of
// 1..sides.
//
// Precondition: sides >= 1.
func Die(sides int) *Distribution {
	d := New()
	for side := 1; side <= sides; side++ {
		d.AddEvent(float64(side), 1)
	}
	return d
}

// Parse builds the exact distribution of a dice expression such as "2d6+3",
// "d20-1d4", or "-4". Terms are folded left to right into an accumulator that
// starts fixed at 0. A dice group "NdM" is folded in one die at a time, N
// times, with Add, or with Subtract when prefixed by '-'. A constant is folded
// in with Add.
//
// Unlike plain regex splitting, an expression with no terms is an error rather
// than a fixed 0, and so is a die with fewer than one side.
//
// Postcondition: Returns a non-nil Distribution, or an error wrapping
// ErrInvalidExpression.
func Parse(expr string) (*Distribution, error) {
	terms, err := ParseTerms(expr)
	if err != nil {
		return nil, err
	}

	acc := Fixed(0)
	for _, t := range terms {
		if !t.IsDice() {
			acc = Add(acc, Fixed(t.Constant))
			continue
		}
		op := Add
		if t.Sign < 0 {
			op = Subtract
		}
		die := Die(t.Sides)
		for i := 0; i < t.Count; i++ {
			acc = op(acc, die)
		}
	}
	return acc, nil
}

// Work returns an upper bound on the number of pairwise combinations Parse
// performs for terms. It saturates at math.MaxInt64.
func Work(terms []Term) int64 {
	var work int64
	span := int64(1)
	add := func(n int64) {
		if work > math.MaxInt64-n {
			work = math.MaxInt64
			return
		}
		work += n
	}
	for _, t := range terms {
		if !t.IsDice() {
			add(span)
			continue
		}
		sides := int64(t.Sides)
		for i := 0; i < t.Count && work < math.MaxInt64; i++ {
			if span > math.MaxInt64/sides {
				work = math.MaxInt64
				break
			}
			add(span * sides)
			span += sides - 1
		}
	}
	return work
}

// MustParse parses expr and panics on error. Useful for package-level values.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) *Distribution {
	d, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return d
}
