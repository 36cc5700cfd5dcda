// Package plots renders spectra and response matrices for inspection.
package plots

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/jetbg/internal/hist"
)

const (
	pngWidth  = 6 * vg.Inch
	pngHeight = 4 * vg.Inch
)

// SaveSpectrumPNG draws h as a normalised histogram and, if model is not
// nil, overlays the density over the histogram range.
func SaveSpectrumPNG(path string, h *hbook.H1D, model func(float64) float64, title string) error {
	if h == nil {
		return fmt.Errorf("no histogram to plot")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = "p_T (GeV/c)"
	p.Y.Label.Text = "1/N dN/dp_T"

	norm := h
	if h.Integral() > 0 {
		norm = h.Clone()
		norm.Scale(1 / (h.Integral() * binWidth(h)))
	}
	hh := hplot.NewH1D(norm)
	hh.FillColor = nil
	hh.LineStyle.Color = color.RGBA{B: 255, A: 255}
	hh.Infos.Style = hplot.HInfoNone
	p.Add(hh)

	if model != nil {
		f := hplot.NewFunction(model)
		f.XMin, f.XMax = h.XMin(), h.XMax()
		f.Samples = 200
		f.Color = color.RGBA{R: 255, A: 255}
		f.Width = vg.Points(1.5)
		p.Add(f)
		p.Legend.Add("density", f)
	}
	p.Legend.Add("sample", hh)
	p.Add(plotter.NewGrid())

	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveHeatmapPNG draws h as a heat map. Flow cells are not drawn.
func SaveHeatmapPNG(path string, h *hist.Hist2D, title string) error {
	if h == nil {
		return fmt.Errorf("no histogram to plot")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = "truth p_T (GeV/c)"
	p.Y.Label.Text = "reconstructed p_T (GeV/c)"
	p.Add(hplot.NewH2D(h.ToHBook(), nil))

	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func binWidth(h *hbook.H1D) float64 {
	n := h.Len()
	if n == 0 {
		return 1
	}
	return (h.XMax() - h.XMin()) / float64(n)
}
