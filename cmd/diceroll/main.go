// Package main provides a CLI for inspecting and sampling dice distributions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/diceroller/internal/catalog"
	"github.com/cory-johannsen/diceroller/internal/config"
	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/observability"
	"github.com/cory-johannsen/diceroller/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	expr := flag.String("expr", "", "dice expression, e.g. 2d6+3")
	entry := flag.String("entry", "", "catalog entry id")
	script := flag.String("script", "", "path to a Lua script returning a distribution")
	op := flag.String("op", "", "combine with -against: one of "+strings.Join(operatorNames(), ", "))
	against := flag.String("against", "", "right-hand dice expression for -op")
	samples := flag.Int("samples", 0, "number of outcomes to sample")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := newSource(cfg.Sampling)
	req := request{
		Expr:    *expr,
		Entry:   *entry,
		Script:  *script,
		Op:      *op,
		Against: *against,
		Samples: *samples,
	}
	if err := req.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	var cat *catalog.Catalog
	if cfg.Catalog.Dir != "" {
		cat, err = catalog.LoadDir(cfg.Catalog.Dir)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}
		logger.Debug("catalog loaded",
			zap.String("dir", cfg.Catalog.Dir),
			zap.Int("entries", cat.Len()),
		)
	}

	engine := scripting.NewEngine(cfg.Scripting.InstructionLimit, src, logger)
	label, d, err := req.resolve(cat, engine)
	if err != nil {
		logger.Fatal("building distribution", zap.Error(err))
	}

	p := message.NewPrinter(language.English)
	if err := writeReport(os.Stdout, p, label, d); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
	if req.Samples > 0 {
		roller := dice.NewLoggedRoller(src, logger)
		out, err := roller.SampleN(label, d, req.Samples)
		if err != nil {
			logger.Fatal("sampling", zap.Error(err))
		}
		writeSamples(os.Stdout, p, out)
	}

	logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
}

func newSource(cfg config.SamplingConfig) dice.Source {
	if cfg.Source == "seeded" {
		return dice.NewSeededSource(cfg.Seed)
	}
	return dice.NewCryptoSource()
}
