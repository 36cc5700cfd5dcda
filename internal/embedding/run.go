// Package embedding measures how well thermal background subtraction
// recovers a known hard probe.
//
// Each event embeds a collimated probe into generated thermal background,
// clusters the probe alone (truth) and the combined event, subtracts the
// background estimated from the event itself, reclusters and matches the
// truth jet to the subtracted jets.
package embedding

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/cluster"
	"github.com/banshee-data/jetbg/internal/hist"
	"github.com/banshee-data/jetbg/internal/matching"
	"github.com/banshee-data/jetbg/internal/monitoring"
	"github.com/banshee-data/jetbg/internal/particle"
)

// Summary aggregates a run.
type Summary struct {
	RunID  string
	Seed   uint64
	Config Config

	Events  int // events processed
	Matched int // events whose truth jet matched a subtracted jet

	// MeanMatchedFraction is the mean truth pt fraction recovered in the
	// matched subtracted jet, over matched events.
	MeanMatchedFraction float64
	// MeanBackgroundPt is the mean of the per-event measured background
	// mean pt.
	MeanBackgroundPt float64
	// Constant is the normalisation of the generating density.
	Constant float64

	Response            *hist.Hist2D // truth pt vs subtracted jet pt
	DeltaPt             *hbook.H1D   // subtracted minus truth pt
	DeltaPtUnsubtracted *hbook.H1D   // embedded minus truth pt
	BackgroundSpectrum  *hbook.H1D   // pt of every generated background particle
}

// MatchEfficiency returns the fraction of events with a matched jet.
func (s *Summary) MatchEfficiency() float64 {
	if s.Events == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Events)
}

type runner struct {
	cfg  Config
	rng  *rand.Rand
	gen  *background.Model
	sub  *background.Model
	def  cluster.Definition
	gaus distuv.Normal
}

// Run processes cfg.Events events. Cancelling ctx stops the run between
// events; the summary of the events processed so far is returned with the
// context error.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding config: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	bg := cfg.Background
	opts := []background.Option{background.WithRand(rng), background.WithSamplingPoints(cfg.SamplingPoints)}
	r := &runner{
		cfg:  cfg,
		rng:  rng,
		gen:  background.NewWithParams(bg.MeanPt, bg.MinPt, bg.MaxPt, opts...),
		sub:  background.NewWithParams(bg.MeanPt, bg.MinPt, bg.MaxPt, opts...),
		def:  cluster.Definition{R: cfg.JetR, PtMin: cfg.JetPtMin},
		gaus: distuv.Normal{Mu: 0, Sigma: cfg.ProbeSpread, Src: rng},
	}

	edges := hist.UniformEdges(cfg.ResponseBins, 0, cfg.ResponseMaxPt)
	response, err := hist.NewHist2D("response", edges, edges)
	if err != nil {
		return nil, err
	}
	half := cfg.ResponseMaxPt / 2
	s := &Summary{
		RunID:               uuid.NewString(),
		Seed:                seed,
		Config:              cfg,
		Constant:            r.gen.Constant(),
		Response:            response,
		DeltaPt:             hbook.NewH1D(cfg.ResponseBins, -half, half),
		DeltaPtUnsubtracted: hbook.NewH1D(cfg.ResponseBins, -half, half),
		BackgroundSpectrum:  hbook.NewH1D(50, bg.MinPt, bg.MaxPt),
	}
	s.DeltaPt.Ann["name"] = "delta_pt"
	s.DeltaPtUnsubtracted.Ann["name"] = "delta_pt_unsubtracted"
	s.BackgroundSpectrum.Ann["name"] = "background_pt"

	defer monitoring.Timed("embed " + s.RunID)()
	var sumFraction, sumMean float64
	for ev := range cfg.Events {
		if err := ctx.Err(); err != nil {
			r.finish(s, sumFraction, sumMean)
			return s, fmt.Errorf("embedding stopped after %d events: %w", ev, err)
		}
		res, err := r.event()
		if err != nil {
			r.finish(s, sumFraction, sumMean)
			return s, fmt.Errorf("event %d: %w", ev, err)
		}
		s.Events++
		sumMean += res.backgroundMean
		for _, pt := range res.backgroundPts {
			s.BackgroundSpectrum.Fill(pt, 1)
		}
		if res.hasUnsubtracted {
			s.DeltaPtUnsubtracted.Fill(res.unsubtractedPt-res.truthPt, 1)
		}
		if res.matched {
			s.Matched++
			sumFraction += res.fraction
			s.Response.Fill(res.truthPt, res.subtractedPt, 1)
			s.DeltaPt.Fill(res.subtractedPt-res.truthPt, 1)
		}
	}
	r.finish(s, sumFraction, sumMean)
	monitoring.Logf("embed %s: %d events, %d matched, mean fraction %.3f",
		s.RunID, s.Events, s.Matched, s.MeanMatchedFraction)
	return s, nil
}

func (r *runner) finish(s *Summary, sumFraction, sumMean float64) {
	if s.Matched > 0 {
		s.MeanMatchedFraction = sumFraction / float64(s.Matched)
	}
	if s.Events > 0 {
		s.MeanBackgroundPt = sumMean / float64(s.Events)
	}
}

type eventResult struct {
	truthPt         float64
	matched         bool
	subtractedPt    float64
	fraction        float64
	hasUnsubtracted bool
	unsubtractedPt  float64
	backgroundMean  float64
	backgroundPts   []float64
}

func (r *runner) event() (eventResult, error) {
	var res eventResult

	probe := r.probe()
	truthJets, err := cluster.AntiKt(probe, cluster.Definition{R: r.cfg.JetR})
	if err != nil {
		return res, fmt.Errorf("truth clustering: %w", err)
	}
	if len(truthJets) == 0 {
		return res, fmt.Errorf("probe produced no jet")
	}
	truth := truthJets[0]
	res.truthPt = truth.Pt()

	bg := r.gen.Generate(r.cfg.BackgroundMultiplicity, r.cfg.MaxEta, 0)
	res.backgroundPts = particle.Pts(bg)
	combined := append(probe, bg...)

	embedded, err := cluster.AntiKt(combined, r.def)
	if err != nil {
		return res, fmt.Errorf("embedded clustering: %w", err)
	}
	if idx := matching.MatchJetsByEtaPhi(truth, embedded, r.cfg.MatchR); len(idx) > 0 {
		res.hasUnsubtracted = true
		res.unsubtractedPt = embedded[idx[0]].Pt()
	}

	subtracted := r.sub.SubtractRecalcFromVector(combined)
	res.backgroundMean = r.sub.Params().MeanPt
	jets, err := cluster.AntiKt(subtracted, r.def)
	if err != nil {
		return res, fmt.Errorf("subtracted clustering: %w", err)
	}
	if idx := matching.MatchJetsByAngularRadius(truth, jets, r.cfg.MatchR); len(idx) > 0 {
		j := jets[idx[0]]
		res.matched = true
		res.subtractedPt = j.Pt()
		res.fraction = matching.PtFractionMatched(j, truth)
	}
	background.Tracef("event: truth=%.2f matched=%v subtracted=%.2f fraction=%.3f",
		res.truthPt, res.matched, res.subtractedPt, res.fraction)
	return res, nil
}

// probe returns ProbeConstituents particles sharing ProbePt, scattered
// around an axis placed so the jet cone fits in the acceptance.
func (r *runner) probe() []particle.Particle {
	reach := math.Max(r.cfg.MaxEta-r.cfg.JetR, 0)
	y0 := (2*r.rng.Float64() - 1) * reach
	phi0 := (2*r.rng.Float64() - 1) * math.Pi
	k := r.cfg.ProbeConstituents
	pt := r.cfg.ProbePt / float64(k)

	out := make([]particle.Particle, k)
	for i := range k {
		y, phi := y0, phi0
		if r.cfg.ProbeSpread > 0 {
			y += r.gaus.Rand()
			phi += r.gaus.Rand()
		}
		out[i] = particle.NewPtYPhiM(pt, y, phi, 0).WithIndex(ProbeOffset + i)
	}
	return out
}
