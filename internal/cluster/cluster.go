// Package cluster runs anti-kt jet clustering over particles and returns
// jets whose constituents keep their UserIndex.
package cluster

import (
	"fmt"

	"go-hep.org/x/hep/fastjet"

	"github.com/banshee-data/jetbg/internal/particle"
)

// Definition selects the jet radius and the inclusive pt threshold.
type Definition struct {
	R     float64
	PtMin float64
}

// Validate reports a definition that cannot be clustered.
func (d Definition) Validate() error {
	if d.R <= 0 {
		return fmt.Errorf("jet radius must be positive, got %f", d.R)
	}
	if d.PtMin < 0 {
		return fmt.Errorf("jet pt threshold must be non-negative, got %f", d.PtMin)
	}
	return nil
}

func (d Definition) jetDefinition() fastjet.JetDefinition {
	return fastjet.NewJetDefinition(fastjet.AntiKtAlgorithm, d.R, fastjet.EScheme, fastjet.BestStrategy)
}

// AntiKt clusters ps and returns the inclusive jets with pt >= PtMin in
// descending pt order.
func AntiKt(ps []particle.Particle, def Definition) ([]particle.Jet, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return []particle.Jet{}, nil
	}

	in := make([]fastjet.Jet, len(ps))
	for i := range ps {
		p := &ps[i]
		in[i] = fastjet.NewJet(p.Px(), p.Py(), p.Pz(), p.E())
		in[i].UserInfo = p.UserIndex
	}

	cs, err := fastjet.NewClusterSequence(in, def.jetDefinition())
	if err != nil {
		return nil, fmt.Errorf("cluster sequence: %w", err)
	}
	inclusive, err := cs.InclusiveJets(def.PtMin)
	if err != nil {
		return nil, fmt.Errorf("inclusive jets: %w", err)
	}

	jets := make([]particle.Jet, 0, len(inclusive))
	for i := range inclusive {
		fj := &inclusive[i]
		subs, err := cs.Constituents(fj)
		if err != nil {
			return nil, fmt.Errorf("constituents of jet %d: %w", i, err)
		}
		constituents := make([]particle.Particle, len(subs))
		for k := range subs {
			constituents[k] = toParticle(&subs[k])
		}
		jets = append(jets, particle.Jet{
			Particle:     particle.Particle{P4: fj.PxPyPzE, UserIndex: particle.NoIndex},
			Constituents: constituents,
		})
	}
	particle.SortByPt(jets)
	return jets, nil
}

func toParticle(j *fastjet.Jet) particle.Particle {
	idx, ok := j.UserInfo.(int)
	if !ok {
		idx = particle.NoIndex
	}
	return particle.Particle{P4: j.PxPyPzE, UserIndex: idx}
}
