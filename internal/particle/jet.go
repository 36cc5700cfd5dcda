package particle

import (
	"sort"

	"go-hep.org/x/hep/fmom"
)

// Jet is a composite object: its own four-momentum plus the particles it was
// built from.
type Jet struct {
	Particle
	Constituents []Particle
}

// NewJet sums the constituents' four-momenta (E-scheme) into a jet.
func NewJet(constituents []Particle) Jet {
	var sum fmom.PxPyPzE
	for i := range constituents {
		fmom.IAdd(&sum, &constituents[i].P4)
	}
	cs := make([]Particle, len(constituents))
	copy(cs, constituents)
	return Jet{
		Particle:     Particle{P4: sum, UserIndex: NoIndex},
		Constituents: cs,
	}
}

// ConstituentPt returns the scalar pt sum of the jet constituents.
func (j Jet) ConstituentPt() float64 {
	return SumPt(j.Constituents)
}

// Momenta returns the jets' own four-momenta, in order.
func Momenta(jets []Jet) []Particle {
	out := make([]Particle, len(jets))
	for i := range jets {
		out[i] = jets[i].Particle
	}
	return out
}

// SortByPt orders jets by descending transverse momentum.
func SortByPt(jets []Jet) {
	sort.SliceStable(jets, func(i, j int) bool {
		return jets[i].Pt() > jets[j].Pt()
	})
}
