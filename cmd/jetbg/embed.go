package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/db"
	"github.com/banshee-data/jetbg/internal/embedding"
	"github.com/banshee-data/jetbg/internal/hist"
	"github.com/banshee-data/jetbg/internal/plots"
)

func handleEmbed(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("embed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	events := fs.Int("events", -1, "Number of events (default: events from config)")
	mult := fs.Int("mult", -1, "Background particles per event (default: multiplicity from config)")
	pngDir := fs.String("png", "", "Write response and spectrum plots into this directory")
	htmlPath := fs.String("html", "", "Write an interactive summary to this HTML file")
	yodaPath := fs.String("yoda", "", "Write the run histograms to this YODA file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs, stderr)
	if err != nil {
		return err
	}
	ecfg := embedding.ConfigFromTuning(cfg)
	ecfg.Events = intOr(*events, ecfg.Events)
	ecfg.BackgroundMultiplicity = intOr(*mult, ecfg.BackgroundMultiplicity)

	s, runErr := embedding.Run(ctx, ecfg)
	if s == nil {
		return runErr
	}
	fmt.Fprintf(stdout, "run %s: %d events, %d matched (%.1f%%), mean matched fraction %.3f, mean background pt %.4f\n",
		s.RunID, s.Events, s.Matched, 100*s.MatchEfficiency(), s.MeanMatchedFraction, s.MeanBackgroundPt)
	if runErr != nil {
		return runErr
	}

	if *pngDir != "" {
		if err := writeEmbedPlots(*pngDir, s); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote plots to %s\n", *pngDir)
	}
	if *htmlPath != "" {
		err := writeFile(*htmlPath, func(w io.Writer) error {
			return plots.RenderSummaryHTML(w, "embedding "+s.RunID, s.Response,
				s.BackgroundSpectrum, s.DeltaPt, s.DeltaPtUnsubtracted)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", *htmlPath)
	}
	if *yodaPath != "" {
		err := writeFile(*yodaPath, func(w io.Writer) error {
			return hist.WriteYODA(w, s.Response.ToHBook(), s.DeltaPt, s.DeltaPtUnsubtracted, s.BackgroundSpectrum)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", *yodaPath)
	}

	if common.dbPath == "" {
		return nil
	}
	bg := ecfg.Background
	return recordRun(common.dbPath, &db.Run{
		ID:               s.RunID,
		Kind:             "embed",
		Seed:             s.Seed,
		Events:           s.Events,
		Multiplicity:     ecfg.BackgroundMultiplicity,
		MeanPt:           bg.MeanPt,
		MinPt:            bg.MinPt,
		MaxPt:            bg.MaxPt,
		Constant:         s.Constant,
		Integral:         1,
		InputCount:       s.Events * (ecfg.BackgroundMultiplicity + ecfg.ProbeConstituents),
		OutputCount:      s.Matched,
		JetR:             ecfg.JetR,
		Matched:          s.Matched,
		MeanFraction:     s.MeanMatchedFraction,
		MeanBackgroundPt: s.MeanBackgroundPt,
		ConfigJSON:       configJSON(cfg),
	}, stdout)
}

func writeEmbedPlots(dir string, s *embedding.Summary) error {
	bg := s.Config.Background
	model := background.NewWithParams(bg.MeanPt, bg.MinPt, bg.MaxPt, background.WithSeed(s.Seed))
	if err := plots.SaveSpectrumPNG(filepath.Join(dir, "background_pt.png"), s.BackgroundSpectrum, model.Eval, "background p_T"); err != nil {
		return err
	}
	if err := plots.SaveSpectrumPNG(filepath.Join(dir, "delta_pt.png"), s.DeltaPt, nil, "subtracted minus truth p_T"); err != nil {
		return err
	}
	return plots.SaveHeatmapPNG(filepath.Join(dir, "response.png"), s.Response, "jet response")
}
