package background

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/jetbg/internal/particle"
)

// Generate draws n massless background particles. Pt follows the density
// over [MinPt, MaxPt], rapidity is uniform in [-maxEta, maxEta) and azimuth
// uniform in [-pi, pi). Particle i is labelled i+offset.
//
// The buffer is overwritten and a copy of it is returned.
func (m *Model) Generate(n int, maxEta float64, offset int) []particle.Particle {
	m.particles = m.particles[:0]
	if n <= 0 {
		return m.Particles()
	}
	eta := distuv.Uniform{Min: -maxEta, Max: maxEta, Src: m.rng}
	phi := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: m.rng}
	for i := range n {
		pt := m.density.Random(m.params.MinPt, m.params.MaxPt, m.rng)
		p := particle.NewPtYPhiM(pt, eta.Rand(), phi.Rand(), 0).WithIndex(i + offset)
		m.particles = append(m.particles, p)
	}
	Diagf("generated %d particles, max eta %g, offset %d", n, maxEta, offset)
	return m.Particles()
}
