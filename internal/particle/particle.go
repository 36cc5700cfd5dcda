// Package particle holds the four-momentum data model shared by the
// background model, the matchers and the embedding driver.
//
// Four-vector arithmetic is delegated to go-hep's fmom package; this package
// only adds the integer identity (UserIndex) used for cross-collection
// matching and the cylinder (rapidity, phi) conventions used by FastJet.
package particle

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
)

// MaxRap protects against zero-pt particles travelling along the beam axis,
// whose rapidity is otherwise infinite.
const MaxRap = 1e5

// NoIndex is the UserIndex of a particle that was never labelled.
const NoIndex = -1

// Particle is a four-momentum with a stable integer identifier.
// Particles are values; collections own them by value.
type Particle struct {
	P4        fmom.PxPyPzE
	UserIndex int
}

// NewPxPyPzE builds an unlabelled particle from cartesian components.
func NewPxPyPzE(px, py, pz, e float64) Particle {
	return Particle{P4: fmom.NewPxPyPzE(px, py, pz, e), UserIndex: NoIndex}
}

// NewPtYPhiM builds an unlabelled particle from transverse momentum,
// rapidity, azimuth and mass.
func NewPtYPhiM(pt, y, phi, m float64) Particle {
	sin, cos := math.Sincos(phi)
	mt := math.Sqrt(pt*pt + m*m)
	return NewPxPyPzE(
		pt*cos,
		pt*sin,
		mt*math.Sinh(y),
		mt*math.Cosh(y),
	)
}

// WithIndex returns a copy of p carrying the given identifier.
func (p Particle) WithIndex(idx int) Particle {
	p.UserIndex = idx
	return p
}

// FromArrays builds one particle per index of the parallel component slices.
// Particle i is labelled i+offset.
func FromArrays(px, py, pz, e []float64, offset int) ([]Particle, error) {
	n := len(px)
	if len(py) != n || len(pz) != n || len(e) != n {
		return nil, fmt.Errorf("component slices differ in length: px=%d py=%d pz=%d e=%d",
			len(px), len(py), len(pz), len(e))
	}
	out := make([]Particle, n)
	for i := range n {
		out[i] = NewPxPyPzE(px[i], py[i], pz[i], e[i]).WithIndex(i + offset)
	}
	return out, nil
}

func (p Particle) Px() float64  { return p.P4.Px() }
func (p Particle) Py() float64  { return p.P4.Py() }
func (p Particle) Pz() float64  { return p.P4.Pz() }
func (p Particle) E() float64   { return p.P4.E() }
func (p Particle) Pt() float64  { return math.Hypot(p.P4.Px(), p.P4.Py()) }
func (p Particle) Eta() float64 { return p.P4.Eta() }
func (p Particle) M() float64   { return p.P4.M() }

// Phi returns the azimuth in [-pi, pi].
func (p Particle) Phi() float64 { return p.P4.Phi() }

// Rapidity returns the cylinder rapidity, finite even for beam-axis particles.
func (p Particle) Rapidity() float64 {
	pt2 := p.Px()*p.Px() + p.Py()*p.Py()
	pz, e := p.Pz(), p.E()
	if e == math.Abs(pz) && pt2 == 0 {
		rap := MaxRap + math.Abs(pz)
		if pz < 0 {
			rap = -rap
		}
		return rap
	}
	m2 := math.Max(0, p.P4.M2()) // tachyonic vectors count as massless
	ee := e + math.Abs(pz)
	rap := 0.5 * math.Log((pt2+m2)/(ee*ee))
	if pz > 0 {
		rap = -rap
	}
	return rap
}

// DeltaPhiTo returns other.Phi() - p.Phi() wrapped into [-pi, pi].
func (p Particle) DeltaPhiTo(other Particle) float64 {
	return fmom.DeltaPhi(&p.P4, &other.P4)
}

// DeltaR returns the rapidity-azimuth distance between p and other.
func (p Particle) DeltaR(other Particle) float64 {
	dphi := math.Abs(p.Phi() - other.Phi())
	if dphi > math.Pi {
		dphi = 2*math.Pi - dphi
	}
	drap := p.Rapidity() - other.Rapidity()
	return math.Sqrt(dphi*dphi + drap*drap)
}

// String implements fmt.Stringer.
func (p Particle) String() string {
	return fmt.Sprintf("particle{idx=%d pt=%.4f y=%.4f phi=%.4f m=%.4f}",
		p.UserIndex, p.Pt(), p.Rapidity(), p.Phi(), p.M())
}

// Pts returns the transverse momenta of ps in order.
func Pts(ps []Particle) []float64 {
	out := make([]float64, len(ps))
	for i := range ps {
		out[i] = ps[i].Pt()
	}
	return out
}

// SumPt returns the scalar transverse momentum sum of ps.
func SumPt(ps []Particle) float64 {
	var sum float64
	for i := range ps {
		sum += ps[i].Pt()
	}
	return sum
}
