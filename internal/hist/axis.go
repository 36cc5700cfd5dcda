package hist

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidEdges is returned when bin edges are not a strictly increasing
// finite sequence of at least two values.
var ErrInvalidEdges = errors.New("invalid bin edges")

// Axis is a variable-width binning. Bin 0 is the underflow, bins 1..N are
// in range and bin N+1 is the overflow.
type Axis struct {
	edges []float64
}

// NewAxis returns an axis over the given edges. The edges are copied.
func NewAxis(edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf("%w: need at least 2 edges, got %d", ErrInvalidEdges, len(edges))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return Axis{}, fmt.Errorf("%w: edge %d is %v", ErrInvalidEdges, i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return Axis{}, fmt.Errorf("%w: edge %d (%g) not above edge %d (%g)", ErrInvalidEdges, i, e, i-1, edges[i-1])
		}
	}
	cp := make([]float64, len(edges))
	copy(cp, edges)
	return Axis{edges: cp}, nil
}

// UniformEdges returns n+1 equally spaced edges spanning [min, max].
func UniformEdges(n int, min, max float64) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n+1)
	w := (max - min) / float64(n)
	for i := range out {
		out[i] = min + float64(i)*w
	}
	out[n] = max
	return out
}

// NBins returns the number of in-range bins.
func (a Axis) NBins() int { return len(a.edges) - 1 }

// Min returns the lower edge of the first bin.
func (a Axis) Min() float64 { return a.edges[0] }

// Max returns the upper edge of the last bin.
func (a Axis) Max() float64 { return a.edges[len(a.edges)-1] }

// Edges returns a copy of the bin edges.
func (a Axis) Edges() []float64 {
	out := make([]float64, len(a.edges))
	copy(out, a.edges)
	return out
}

// BinLowEdge returns the lower edge of bin i.
// For the flow bins the axis is extended with its mean bin width.
func (a Axis) BinLowEdge(i int) float64 {
	if i >= 1 && i <= a.NBins() {
		return a.edges[i-1]
	}
	w := (a.Max() - a.Min()) / float64(a.NBins())
	return a.Min() + float64(i-1)*w
}

// BinCenter returns the centre of bin i. Flow bins use the mean bin width.
func (a Axis) BinCenter(i int) float64 {
	if i >= 1 && i <= a.NBins() {
		return 0.5 * (a.edges[i-1] + a.edges[i])
	}
	w := (a.Max() - a.Min()) / float64(a.NBins())
	return a.Min() + (float64(i)-0.5)*w
}

// BinWidth returns the width of in-range bin i.
func (a Axis) BinWidth(i int) float64 {
	if i >= 1 && i <= a.NBins() {
		return a.edges[i] - a.edges[i-1]
	}
	return (a.Max() - a.Min()) / float64(a.NBins())
}

// FindBin returns the bin containing v. Bins are closed below and open
// above; values below the axis go to 0 and values at or above Max to N+1.
func (a Axis) FindBin(v float64) int {
	if v < a.edges[0] {
		return 0
	}
	return sort.Search(len(a.edges), func(i int) bool { return a.edges[i] > v })
}
