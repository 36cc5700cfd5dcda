package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/jetbg/internal/hist"
)

func handleRebin(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rebin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "YODA file holding the source histogram (default: synthetic response)")
	nx := fs.Int("nx", 4, "Bins of the rebinned x axis")
	ny := fs.Int("ny", 4, "Bins of the rebinned y axis")
	fills := fs.Int("fills", 2000, "Entries of the synthetic response")
	moveUnderflow := fs.Bool("move-underflow", false, "Fold the y underflow into the first y bin (default: move_y_underflow from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs, stderr)
	if err != nil {
		return err
	}
	move := cfg.GetMoveYUnderflow()
	if isFlagSet(fs, "move-underflow") {
		move = *moveUnderflow
	}

	var src *hist.Hist2D
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		if src, err = hist.ReadYODA2D(f); err != nil {
			return err
		}
	} else {
		if src, err = syntheticResponse(cfg.GetResponseBins(), cfg.GetResponseMaxPt(), *fills, cfg.GetSeed()); err != nil {
			return err
		}
	}

	x, y := src.XAxis(), src.YAxis()
	dst, err := hist.Rebin(src, src.Name(),
		hist.UniformEdges(*nx, x.Min(), x.Max()),
		hist.UniformEdges(*ny, y.Min(), y.Max()),
		move)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "rebinned %s: %dx%d -> %dx%d, integral %.1f -> %.1f (move underflow: %v)\n",
		src.Name(), src.NBinsX(), src.NBinsY(), dst.NBinsX(), dst.NBinsY(), src.Integral(), dst.Integral(), move)
	return hist.WriteYODA(stdout, dst.ToHBook())
}

// syntheticResponse fills a square response with gaussian smearing of
// 10% of the range, so part of the low-pt truth lands in the y underflow.
func syntheticResponse(bins int, maxPt float64, fills int, seed uint64) (*hist.Hist2D, error) {
	edges := hist.UniformEdges(bins, 0, maxPt)
	h, err := hist.NewHist2D("response", edges, edges)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	smear := distuv.Normal{Mu: 0, Sigma: 0.1 * maxPt, Src: rng}
	truth := distuv.Uniform{Min: 0, Max: maxPt, Src: rng}
	for range fills {
		t := truth.Rand()
		h.Fill(t, t+smear.Rand(), 1)
	}
	return h, nil
}
