package background

import (
	"fmt"

	"github.com/banshee-data/jetbg/internal/config"
)

// Params identifies a thermal density: its mean pt and the [MinPt, MaxPt]
// window it is normalised over. Params are compared with ==.
type Params struct {
	MeanPt float64
	MinPt  float64
	MaxPt  float64
}

// Unset marks a model that has never been built. No physical window can
// compare equal to it, so the first Reset always rebuilds.
var Unset = Params{MeanPt: -1, MinPt: -1, MaxPt: -1}

// DefaultParams are the parameters used by New.
var DefaultParams = Params{MeanPt: 0.7, MinPt: 0.15, MaxPt: 5.0}

// Validate reports parameters the model accepts but that describe no
// usable density.
func (p Params) Validate() error {
	if p.MeanPt <= 0 {
		return fmt.Errorf("mean pt must be positive, got %f", p.MeanPt)
	}
	if p.MinPt < 0 {
		return fmt.Errorf("min pt must be non-negative, got %f", p.MinPt)
	}
	if p.MinPt >= p.MaxPt {
		return fmt.Errorf("min pt (%f) must be below max pt (%f)", p.MinPt, p.MaxPt)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("mean=%g window=[%g, %g]", p.MeanPt, p.MinPt, p.MaxPt)
}

// Config provides a configuration builder for a Model. It allows setting
// parameters with defaults and validation before creating the model.
type Config struct {
	MeanPt         float64 // Mean transverse momentum (default: 0.7)
	MinPt          float64 // Lower edge of the density window (default: 0.15)
	MaxPt          float64 // Upper edge of the density window (default: 5.0)
	SamplingPoints int     // Bins in the sampling CDF table (default: 100)
	Seed           uint64  // Random seed; 0 draws one from the runtime (default: 0)
}

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file (config/tuning.defaults.json).
// Panics if the file cannot be found; intended for tests and binaries that
// have already validated config availability.
func DefaultConfig() *Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) *Config {
	return &Config{
		MeanPt:         cfg.GetMeanPt(),
		MinPt:          cfg.GetMinPt(),
		MaxPt:          cfg.GetMaxPt(),
		SamplingPoints: cfg.GetSamplingPoints(),
		Seed:           cfg.GetSeed(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ToParams().Validate(); err != nil {
		return err
	}
	if c.SamplingPoints < 1 {
		return fmt.Errorf("SamplingPoints must be at least 1, got %d", c.SamplingPoints)
	}
	return nil
}

// ToParams converts the config to the Params value the model is keyed on.
func (c *Config) ToParams() Params {
	return Params{MeanPt: c.MeanPt, MinPt: c.MinPt, MaxPt: c.MaxPt}
}

// Options returns the model options implied by the config.
func (c *Config) Options() []Option {
	opts := []Option{WithSamplingPoints(c.SamplingPoints)}
	if c.Seed != 0 {
		opts = append(opts, WithSeed(c.Seed))
	}
	return opts
}

// WithMeanPt sets the mean transverse momentum.
func (c *Config) WithMeanPt(v float64) *Config {
	c.MeanPt = v
	return c
}

// WithWindow sets the pt window the density is normalised over.
func (c *Config) WithWindow(minPt, maxPt float64) *Config {
	c.MinPt = minPt
	c.MaxPt = maxPt
	return c
}

// WithSamplingPoints sets the number of CDF bins used when generating.
func (c *Config) WithSamplingPoints(n int) *Config {
	c.SamplingPoints = n
	return c
}

// WithSeed sets the random seed.
func (c *Config) WithSeed(seed uint64) *Config {
	c.Seed = seed
	return c
}
