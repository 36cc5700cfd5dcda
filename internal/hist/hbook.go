package hist

import (
	"fmt"
	"io"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/yodacnv"

	"github.com/banshee-data/jetbg/internal/particle"
)

// YODAMarshaler is implemented by the hbook histogram types.
type YODAMarshaler interface {
	MarshalYODA() ([]byte, error)
}

// ToHBook converts h to an hbook histogram by filling every non-empty cell
// at its bin centre. Flow cells land in the hbook outflows. The squared
// errors of in-range cells replace the ones hbook derives from the fill
// weights, so BinError survives the conversion.
func (h *Hist2D) ToHBook() *hbook.H2D {
	out := hbook.NewH2DFromEdges(h.x.Edges(), h.y.Edges())
	out.Ann["name"] = h.name
	for iy := 0; iy <= h.y.NBins()+1; iy++ {
		for ix := 0; ix <= h.x.NBins()+1; ix++ {
			if c := h.BinContent(ix, iy); c != 0 {
				out.Fill(h.x.BinCenter(ix), h.y.BinCenter(iy), c)
			}
		}
	}

	bng := &out.Binning
	for iy := 1; iy <= h.y.NBins(); iy++ {
		for ix := 1; ix <= h.x.NBins(); ix++ {
			e2 := h.sumW2At(h.Bin(ix, iy))
			d := &bng.Bins[(iy-1)*bng.Nx+ix-1].Dist
			delta := e2 - d.X.Dist.SumW2
			d.X.Dist.SumW2 = e2
			d.Y.Dist.SumW2 = e2
			bng.Dist.X.Dist.SumW2 += delta
			bng.Dist.Y.Dist.SumW2 += delta
		}
	}
	return out
}

// FromHBook converts the in-range bins of an hbook histogram. The hbook
// outflows are aggregated over the other axis and cannot be mapped back to
// flow cells, so they are dropped.
func FromHBook(src *hbook.H2D) (*Hist2D, error) {
	// The YODA reader rebuilds XEdges and YEdges as uniform bins; only the
	// per-bin ranges keep the real edges.
	bng := &src.Binning
	if bng.Nx < 1 || bng.Ny < 1 || len(bng.Bins) != bng.Nx*bng.Ny {
		return nil, fmt.Errorf("hbook %q: %w", src.Name(), ErrInvalidEdges)
	}
	xEdges := make([]float64, 0, bng.Nx+1)
	for ix := 0; ix < bng.Nx; ix++ {
		xEdges = append(xEdges, bng.Bins[ix].XRange.Min)
	}
	xEdges = append(xEdges, bng.Bins[bng.Nx-1].XRange.Max)
	yEdges := make([]float64, 0, bng.Ny+1)
	for iy := 0; iy < bng.Ny; iy++ {
		yEdges = append(yEdges, bng.Bins[iy*bng.Nx].YRange.Min)
	}
	yEdges = append(yEdges, bng.Bins[(bng.Ny-1)*bng.Nx].YRange.Max)

	h, err := NewHist2D(src.Name(), xEdges, yEdges)
	if err != nil {
		return nil, err
	}
	h.Sumw2()
	for i := range bng.Bins {
		b := &bng.Bins[i]
		bin := h.Bin(i%bng.Nx+1, i/bng.Nx+1)
		h.content[bin] = b.SumW()
		h.sumw2[bin] = b.SumW2()
	}
	h.entries = src.Entries()
	return h, nil
}

// PtSpectrum histograms the transverse momenta of ps.
func PtSpectrum(name string, ps []particle.Particle, nbins int, min, max float64) *hbook.H1D {
	h := hbook.NewH1D(nbins, min, max)
	h.Ann["name"] = name
	for i := range ps {
		h.Fill(ps[i].Pt(), 1)
	}
	return h
}

// WriteYODA writes each object in YODA text format.
func WriteYODA(w io.Writer, objs ...YODAMarshaler) error {
	for _, o := range objs {
		raw, err := o.MarshalYODA()
		if err != nil {
			return fmt.Errorf("marshal yoda: %w", err)
		}
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("write yoda: %w", err)
		}
	}
	return nil
}

// ReadYODA2D returns the first 2D histogram in a YODA stream.
func ReadYODA2D(r io.Reader) (*Hist2D, error) {
	objs, err := yodacnv.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read yoda: %w", err)
	}
	for _, o := range objs {
		if h2, ok := o.(*hbook.H2D); ok {
			return FromHBook(h2)
		}
	}
	return nil, fmt.Errorf("read yoda: no 2D histogram among %d objects", len(objs))
}
