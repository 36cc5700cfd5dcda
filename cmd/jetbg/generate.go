package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/db"
	"github.com/banshee-data/jetbg/internal/hist"
	"github.com/banshee-data/jetbg/internal/particle"
	"github.com/banshee-data/jetbg/internal/plots"
)

func handleGenerate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	n := fs.Int("n", -1, "Number of particles (default: multiplicity from config)")
	maxEta := fs.Float64("max-eta", 0, "Pseudorapidity acceptance (default: max_eta from config)")
	offset := fs.Int("offset", 0, "UserIndex of the first particle")
	bins := fs.Int("bins", 50, "Number of spectrum bins")
	pngPath := fs.String("png", "", "Write the spectrum with the density overlay to this PNG")
	htmlPath := fs.String("html", "", "Write an interactive spectrum to this HTML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bins < 1 {
		return fmt.Errorf("-bins must be at least 1, got %d", *bins)
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
	ps := m.Generate(count, floatOr(*maxEta, cfg.GetMaxEta()), *offset)
	p := m.Params()
	sum := particle.SumPt(ps)
	mean := 0.0
	if len(ps) > 0 {
		mean = sum / float64(len(ps))
	}
	fmt.Fprintf(stdout, "generated %d particles: sum pt %.3f, mean pt %.4f (%s, C=%.4f)\n",
		len(ps), sum, mean, p, m.Constant())

	spectrum := hist.PtSpectrum("background_pt", ps, *bins, p.MinPt, p.MaxPt)
	const title = "thermal background p_T"
	if *pngPath != "" {
		if err := plots.SaveSpectrumPNG(*pngPath, spectrum, m.Eval, title); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", *pngPath)
	}
	if *htmlPath != "" {
		err := writeFile(*htmlPath, func(w io.Writer) error {
			return plots.RenderSpectrumHTML(w, spectrum, title)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", *htmlPath)
	}

	if common.dbPath == "" {
		return nil
	}
	return recordRun(common.dbPath, &db.Run{
		Kind:         "generate",
		Seed:         cfg.GetSeed(),
		Events:       1,
		Multiplicity: count,
		MeanPt:       p.MeanPt,
		MinPt:        p.MinPt,
		MaxPt:        p.MaxPt,
		Constant:     m.Constant(),
		Integral:     m.Integral(),
		OutputCount:  len(ps),
		ConfigJSON:   configJSON(cfg),
	}, stdout)
}
