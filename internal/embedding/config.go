package embedding

import (
	"fmt"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/config"
)

// ProbeOffset labels probe constituents so they never collide with
// background particles, which are labelled from 0.
const ProbeOffset = 100000

// Config controls an embedding run.
type Config struct {
	Events                 int
	BackgroundMultiplicity int
	MaxEta                 float64
	ProbePt                float64 // total pt shared by the probe constituents
	ProbeSpread            float64 // gaussian width of constituents around the probe axis
	ProbeConstituents      int
	JetR                   float64
	JetPtMin               float64
	MatchR                 float64
	ResponseBins           int
	ResponseMaxPt          float64
	Seed                   uint64 // 0 seeds from the runtime
	Background             background.Params
	SamplingPoints         int
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		Events:                 cfg.GetEvents(),
		BackgroundMultiplicity: cfg.GetMultiplicity(),
		MaxEta:                 cfg.GetMaxEta(),
		ProbePt:                cfg.GetProbePt(),
		ProbeSpread:            cfg.GetProbeSpread(),
		ProbeConstituents:      cfg.GetProbeConstituents(),
		JetR:                   cfg.GetJetR(),
		JetPtMin:               cfg.GetJetPtMin(),
		MatchR:                 cfg.GetMatchR(),
		ResponseBins:           cfg.GetResponseBins(),
		ResponseMaxPt:          cfg.GetResponseMaxPt(),
		Seed:                   cfg.GetSeed(),
		Background: background.Params{
			MeanPt: cfg.GetMeanPt(),
			MinPt:  cfg.GetMinPt(),
			MaxPt:  cfg.GetMaxPt(),
		},
		SamplingPoints: cfg.GetSamplingPoints(),
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Events < 0 {
		return fmt.Errorf("Events must be non-negative, got %d", c.Events)
	}
	if c.BackgroundMultiplicity < 0 {
		return fmt.Errorf("BackgroundMultiplicity must be non-negative, got %d", c.BackgroundMultiplicity)
	}
	if c.MaxEta <= 0 {
		return fmt.Errorf("MaxEta must be positive, got %f", c.MaxEta)
	}
	if c.ProbePt <= 0 {
		return fmt.Errorf("ProbePt must be positive, got %f", c.ProbePt)
	}
	if c.ProbeSpread < 0 {
		return fmt.Errorf("ProbeSpread must be non-negative, got %f", c.ProbeSpread)
	}
	if c.ProbeConstituents < 1 {
		return fmt.Errorf("ProbeConstituents must be at least 1, got %d", c.ProbeConstituents)
	}
	if c.JetR <= 0 || c.MatchR <= 0 {
		return fmt.Errorf("JetR and MatchR must be positive, got %f and %f", c.JetR, c.MatchR)
	}
	if c.ResponseBins < 1 || c.ResponseMaxPt <= 0 {
		return fmt.Errorf("response binning must be non-empty, got %d bins up to %f", c.ResponseBins, c.ResponseMaxPt)
	}
	if err := c.Background.Validate(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}
