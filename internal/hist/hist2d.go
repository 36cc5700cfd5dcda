package hist

import (
	"fmt"
	"math"
)

// Hist2D is a two-dimensional histogram with variable bin edges, flow cells
// on both axes and optional per-cell sum of squared weights.
//
// Cells are addressed either by (ix, iy) with 0 and N+1 as flow bins, or by
// the linear index ix + (NBinsX+2)*iy.
type Hist2D struct {
	name    string
	x, y    Axis
	content []float64
	sumw2   []float64 // nil until Sumw2 is enabled
	entries int64
}

// NewHist2D returns an empty histogram with the given edges.
func NewHist2D(name string, xEdges, yEdges []float64) (*Hist2D, error) {
	x, err := NewAxis(xEdges)
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	y, err := NewAxis(yEdges)
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}
	return &Hist2D{
		name:    name,
		x:       x,
		y:       y,
		content: make([]float64, (x.NBins()+2)*(y.NBins()+2)),
	}, nil
}

func (h *Hist2D) Name() string   { return h.name }
func (h *Hist2D) XAxis() Axis    { return h.x }
func (h *Hist2D) YAxis() Axis    { return h.y }
func (h *Hist2D) NBinsX() int    { return h.x.NBins() }
func (h *Hist2D) NBinsY() int    { return h.y.NBins() }
func (h *Hist2D) Entries() int64 { return h.entries }

// NCells returns the number of cells including flow bins.
func (h *Hist2D) NCells() int { return len(h.content) }

// Bin returns the linear cell index of (ix, iy).
func (h *Hist2D) Bin(ix, iy int) int { return ix + (h.x.NBins()+2)*iy }

// FindBin returns the linear cell index containing (x, y).
func (h *Hist2D) FindBin(x, y float64) int {
	return h.Bin(h.x.FindBin(x), h.y.FindBin(y))
}

// Fill adds weight w at (x, y).
func (h *Hist2D) Fill(x, y, w float64) {
	bin := h.FindBin(x, y)
	h.content[bin] += w
	if h.sumw2 != nil {
		h.sumw2[bin] += w * w
	}
	h.entries++
}

func (h *Hist2D) BinContent(ix, iy int) float64 { return h.content[h.Bin(ix, iy)] }

func (h *Hist2D) SetBinContent(ix, iy int, v float64) { h.content[h.Bin(ix, iy)] = v }

func (h *Hist2D) BinContentAt(bin int) float64 { return h.content[bin] }

func (h *Hist2D) SetBinContentAt(bin int, v float64) { h.content[bin] = v }

// BinError returns the error of cell (ix, iy).
func (h *Hist2D) BinError(ix, iy int) float64 { return h.BinErrorAt(h.Bin(ix, iy)) }

// BinErrorAt returns sqrt(sumw2) when squared weights are tracked and
// sqrt(|content|) otherwise.
func (h *Hist2D) BinErrorAt(bin int) float64 {
	if h.sumw2 != nil {
		return math.Sqrt(h.sumw2[bin])
	}
	return math.Sqrt(math.Abs(h.content[bin]))
}

// sumW2At returns the squared error of a cell.
func (h *Hist2D) sumW2At(bin int) float64 {
	if h.sumw2 != nil {
		return h.sumw2[bin]
	}
	return math.Abs(h.content[bin])
}

// SetBinErrorAt stores e as the error of a cell, enabling Sumw2 if needed.
func (h *Hist2D) SetBinErrorAt(bin int, e float64) {
	if h.sumw2 == nil {
		h.Sumw2()
	}
	h.sumw2[bin] = e * e
}

// Sumw2 enables tracking of squared weights, seeded from the current
// contents. It is a no-op when already enabled.
func (h *Hist2D) Sumw2() {
	if h.sumw2 != nil {
		return
	}
	h.sumw2 = make([]float64, len(h.content))
	copy(h.sumw2, h.content)
}

// HasSumw2 reports whether squared weights are tracked.
func (h *Hist2D) HasSumw2() bool { return h.sumw2 != nil }

// Integral returns the sum of the in-range cells.
func (h *Hist2D) Integral() float64 {
	var sum float64
	for iy := 1; iy <= h.y.NBins(); iy++ {
		for ix := 1; ix <= h.x.NBins(); ix++ {
			sum += h.content[h.Bin(ix, iy)]
		}
	}
	return sum
}

// Scale multiplies every cell by f and the squared weights by f*f.
func (h *Hist2D) Scale(f float64) {
	for i := range h.content {
		h.content[i] *= f
	}
	for i := range h.sumw2 {
		h.sumw2[i] *= f * f
	}
}

func (h *Hist2D) String() string {
	return fmt.Sprintf("Hist2D{%q x=%d[%g, %g] y=%d[%g, %g] entries=%d}",
		h.name, h.x.NBins(), h.x.Min(), h.x.Max(), h.y.NBins(), h.y.Min(), h.y.Max(), h.entries)
}
