package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/diceroller/internal/catalog"
	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/scripting"
)

// request holds the parsed command line.
type request struct {
	Expr    string
	Entry   string
	Script  string
	Op      string
	Against string
	Samples int
}

// validate checks that exactly one input is given and that -op and -against
// appear together.
func (r request) validate() error {
	n := 0
	for _, s := range []string{r.Expr, r.Entry, r.Script} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return errors.New("exactly one of -expr, -entry, -script is required")
	}
	if (r.Op == "") != (r.Against == "") {
		return errors.New("-op and -against must be used together")
	}
	if r.Op != "" {
		if _, ok := dice.Operators[r.Op]; !ok {
			return fmt.Errorf("unknown -op %q", r.Op)
		}
	}
	if r.Samples < 0 {
		return fmt.Errorf("-samples must be >= 0, got %d", r.Samples)
	}
	return nil
}

// resolve builds the requested distribution and a label describing it.
//
// Precondition: r passed validate.
func (r request) resolve(cat *catalog.Catalog, engine *scripting.Engine) (string, *dice.Distribution, error) {
	var (
		label string
		d     *dice.Distribution
		err   error
	)
	switch {
	case r.Expr != "":
		label = r.Expr
		d, err = dice.Parse(r.Expr)
	case r.Entry != "":
		label = r.Entry
		if cat == nil {
			return "", nil, fmt.Errorf("entry %q requested but catalog.dir is not configured", r.Entry)
		}
		d, err = cat.Distribution(r.Entry)
	default:
		label = r.Script
		d, err = engine.EvalFile(r.Script)
	}
	if err != nil {
		return "", nil, err
	}

	if r.Op == "" {
		return label, d, nil
	}
	rhs, err := dice.Parse(r.Against)
	if err != nil {
		return "", nil, fmt.Errorf("parsing -against: %w", err)
	}
	return fmt.Sprintf("%s %s %s", label, r.Op, r.Against), dice.Operators[r.Op](d, rhs), nil
}

func operatorNames() []string {
	names := make([]string, 0, len(dice.Operators))
	for name := range dice.Operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
