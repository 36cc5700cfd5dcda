package background

import (
	"github.com/banshee-data/jetbg/internal/particle"
)

// Subtract removes the expected thermal pt from each particle.
//
// With meanPt >= 0 and n >= 0 the background total is n*meanPt. Otherwise
// the mean and total are measured from the particles with pt <= MaxPt, and
// the scan sums start from zero: a negative meanPt or n never leaks into the
// measured total, so Subtract(ps, -1, -1) equals SubtractRecalcFromVector(ps).
// When the count is positive the density is reset to the resulting mean.
//
// Particles above MaxPt pass through unchanged. A particle at or below MaxPt
// keeps pt - Eval(pt)*total if that is above MinPt and is dropped otherwise.
// Output order follows input order and every particle keeps its UserIndex.
func (m *Model) Subtract(ps []particle.Particle, meanPt float64, n int) []particle.Particle {
	count := float64(n)
	mean := meanPt
	total := count * mean
	if mean < 0 || count < 0 {
		total, count = m.scan(ps)
		if count > 0 {
			mean = total / count
		}
	}
	if count > 0 {
		m.Reset(mean, m.params.MinPt, m.params.MaxPt)
	}
	return m.subtract(ps, total)
}

// SubtractRecalcFromVector is Subtract with the mean and total always
// measured from ps.
func (m *Model) SubtractRecalcFromVector(ps []particle.Particle) []particle.Particle {
	total, count := m.scan(ps)
	if count > 0 {
		m.Reset(total/count, m.params.MinPt, m.params.MaxPt)
	}
	return m.subtract(ps, total)
}

// scan sums pt and counts the particles at or below MaxPt.
func (m *Model) scan(ps []particle.Particle) (total, count float64) {
	for i := range ps {
		if pt := ps[i].Pt(); pt <= m.params.MaxPt {
			total += pt
			count++
		}
	}
	return total, count
}

func (m *Model) subtract(ps []particle.Particle, total float64) []particle.Particle {
	m.particles = m.particles[:0]
	Diagf("subtracting: total_pt=%f over %d particles", total, len(ps))
	trace := Enabled(StreamTrace)
	for i := range ps {
		p := ps[i]
		pt := p.Pt()
		if pt > m.params.MaxPt {
			m.particles = append(m.particles, p)
			continue
		}
		fraction := m.Eval(pt) * total
		if pt-fraction <= m.params.MinPt {
			traceParticle(trace, false, p.UserIndex, pt, fraction)
			continue
		}
		q := particle.NewPtYPhiM(pt-fraction, p.Rapidity(), p.Phi(), p.M()).WithIndex(p.UserIndex)
		traceParticle(trace, true, p.UserIndex, pt, q.Pt())
		m.particles = append(m.particles, q)
	}
	return m.Particles()
}
