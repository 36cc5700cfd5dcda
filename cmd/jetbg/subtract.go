package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/db"
	"github.com/banshee-data/jetbg/internal/particle"
)

func handleSubtract(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("subtract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	n := fs.Int("n", -1, "Number of particles to generate (default: multiplicity from config)")
	maxEta := fs.Float64("max-eta", 0, "Pseudorapidity acceptance (default: max_eta from config)")
	meanPt := fs.Float64("mean-pt", -1, "Background mean pt; negative measures it from the event")
	countArg := fs.Int("count", -1, "Background multiplicity; negative measures it from the event")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs, stderr)
	if err != nil {
		return err
	}
	m, err := background.NewFromTuning(cfg)
	if err != nil {
		return err
	}

	count := intOr(*n, cfg.GetMultiplicity())
	in := m.Generate(count, floatOr(*maxEta, cfg.GetMaxEta()), 0)
	out := m.Subtract(in, *meanPt, *countArg)
	p := m.Params()

	fmt.Fprintf(stdout, "input:  %d particles, sum pt %.3f\n", len(in), particle.SumPt(in))
	fmt.Fprintf(stdout, "output: %d particles, sum pt %.3f\n", len(out), particle.SumPt(out))
	fmt.Fprintf(stdout, "model:  %s\n", p)

	if common.dbPath == "" {
		return nil
	}
	return recordRun(common.dbPath, &db.Run{
		Kind:         "subtract",
		Seed:         cfg.GetSeed(),
		Events:       1,
		Multiplicity: count,
		MeanPt:       p.MeanPt,
		MinPt:        p.MinPt,
		MaxPt:        p.MaxPt,
		Constant:     m.Constant(),
		Integral:     m.Integral(),
		InputCount:   len(in),
		OutputCount:  len(out),
		ConfigJSON:   configJSON(cfg),
	}, stdout)
}
