// Package matching relates jets across collections: by shared constituent
// identity, and by distance in the (rapidity, phi) or (eta, phi) plane.
package matching

import (
	"math"

	"github.com/banshee-data/jetbg/internal/particle"
)

// PtFractionMatched returns the pt of j1's constituents whose UserIndex also
// labels a constituent of j0, divided by the total constituent pt of j1.
// A j1 constituent is counted once for every matching j0 constituent.
//
// When j1 has no constituent pt the result is NaN.
func PtFractionMatched(j0, j1 particle.Jet) float64 {
	var sum, sum1 float64
	for _, p1 := range j1.Constituents {
		sum1 += p1.Pt()
	}
	for _, p0 := range j0.Constituents {
		for _, p1 := range j1.Constituents {
			if p0.UserIndex == p1.UserIndex {
				sum += p1.Pt()
			}
		}
	}
	return sum / sum1
}

// MatchByAngularRadius returns, in order, the indices of candidates whose
// rapidity-phi distance to j is strictly below r.
func MatchByAngularRadius(j particle.Particle, candidates []particle.Particle, r float64) []int {
	out := []int{}
	for i := range candidates {
		if j.DeltaR(candidates[i]) < r {
			out = append(out, i)
		}
	}
	return out
}

// MatchByEtaPhi returns, in order, the indices of candidates whose
// pseudorapidity-phi distance to j is strictly below r. The azimuthal
// difference is wrapped into [-pi, pi].
func MatchByEtaPhi(j particle.Particle, candidates []particle.Particle, r float64) []int {
	out := []int{}
	for i := range candidates {
		dphi := j.DeltaPhiTo(candidates[i])
		deta := j.Eta() - candidates[i].Eta()
		if math.Sqrt(dphi*dphi+deta*deta) < r {
			out = append(out, i)
		}
	}
	return out
}

// MatchJetsByAngularRadius is MatchByAngularRadius over jet momenta.
func MatchJetsByAngularRadius(j particle.Jet, candidates []particle.Jet, r float64) []int {
	return MatchByAngularRadius(j.Particle, particle.Momenta(candidates), r)
}

// MatchJetsByEtaPhi is MatchByEtaPhi over jet momenta.
func MatchJetsByEtaPhi(j particle.Jet, candidates []particle.Jet, r float64) []int {
	return MatchByEtaPhi(j.Particle, particle.Momenta(candidates), r)
}
