package hist

import (
	"fmt"
	"math"
)

// RebinSuffix is appended to the name of a rebinned histogram.
const RebinSuffix = "_rebinned"

// Rebin fills a new histogram named name+RebinSuffix on the given edges with
// the in-range content of src, each source cell entered at its bin centre.
//
// The source y-underflow row is dropped unless moveYUnderflow is set, in
// which case it is added to the first in-range y row of the destination;
// it is not kept as underflow. Source x flow bins and the y-overflow row are
// not carried.
//
// Every destination cell gets the counting error sqrt(content), and the
// result tracks squared weights.
func Rebin(src *Hist2D, name string, xEdges, yEdges []float64, moveYUnderflow bool) (*Hist2D, error) {
	dst, err := NewHist2D(name+RebinSuffix, xEdges, yEdges)
	if err != nil {
		return nil, fmt.Errorf("rebin %s: %w", src.Name(), err)
	}

	firstY := dst.YAxis().BinCenter(1)
	for ix := 1; ix <= src.NBinsX(); ix++ {
		x := src.XAxis().BinCenter(ix)
		for iy := 0; iy <= src.NBinsY(); iy++ {
			c := src.BinContent(ix, iy)
			if iy == 0 {
				if moveYUnderflow {
					dst.Fill(x, firstY, c)
				}
				continue
			}
			dst.Fill(x, src.YAxis().BinCenter(iy), c)
		}
	}

	// Weighted fills would give sqrt(sum w^2); the rebinned cells carry
	// plain counting errors instead.
	for i := range dst.NCells() {
		dst.SetBinErrorAt(i, math.Sqrt(dst.BinContentAt(i)))
	}
	dst.Sumw2()
	return dst, nil
}
