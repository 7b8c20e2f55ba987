package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged sampling.
// Every draw is logged at debug level with its label, outcome, and space size.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that samples with src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Sample draws one outcome from d and logs it under label.
//
// Postcondition: result logged; returns the outcome or ErrZeroSpace.
func (r *Roller) Sample(label string, d *Distribution) (float64, error) {
	outcome, err := d.Sample(r.src)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("dice sample",
		zap.String("label", label),
		zap.Float64("outcome", outcome),
		zap.Float64("space_size", d.SpaceSize()),
	)
	return outcome, nil
}

// SampleN draws n outcomes from d, logging each one.
//
// Precondition: n >= 0.
// Postcondition: len(result) == n on success.
func (r *Roller) SampleN(label string, d *Distribution, n int) ([]float64, error) {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.Sample(label, d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// SampleExpr parses expr and draws one outcome from it, logging the result.
//
// Postcondition: Returns an outcome or a parse/sample error.
func (r *Roller) SampleExpr(expr string) (float64, error) {
	d, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return r.Sample(expr, d)
}
