package main

import (
	"io"

	"golang.org/x/text/message"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// writeReport prints the summary statistics and percentage series of d.
func writeReport(w io.Writer, p *message.Printer, label string, d *dice.Distribution) error {
	ev, err := d.ExpectedValue()
	if err != nil {
		return err
	}
	series, err := d.Series()
	if err != nil {
		return err
	}

	p.Fprintf(w, "%s\n", label)
	p.Fprintf(w, "  space size:     %v\n", d.SpaceSize())
	p.Fprintf(w, "  expected value: %.4f\n", ev)
	for i, o := range series.Outcomes {
		p.Fprintf(w, "  %8v  %7.2f%%\n", o, series.Percentages[i])
	}
	return nil
}

func writeSamples(w io.Writer, p *message.Printer, out []float64) {
	p.Fprintf(w, "samples:")
	for _, v := range out {
		p.Fprintf(w, " %v", v)
	}
	p.Fprintf(w, "\n")
}
