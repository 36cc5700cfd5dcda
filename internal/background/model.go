// Package background models the soft thermal background of a heavy-ion
// event as a normalised Boltzmann-like pt density,
//
//	g(pt) = C * pt * exp(-pt / (mean/2)),  C = 1 / integral over [min, max],
//
// and uses it to generate background particles and to subtract the expected
// background pt from measured ones.
//
// The density is rebuilt only when the (mean, min, max) triple changes.
// A Model owns its random source and its particle buffer and is not safe for
// concurrent use.
package background

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/banshee-data/jetbg/internal/config"
	"github.com/banshee-data/jetbg/internal/numfunc"
	"github.com/banshee-data/jetbg/internal/particle"
)

// zeroIntegral replaces a vanishing normalisation integral.
const zeroIntegral = 1e-9

// boltzmann is the unnormalised density; par[0] is the mean pt.
func boltzmann(x float64, par []float64) float64 {
	return x * math.Exp(-x/(par[0]/2))
}

// boltzmannNorm is the normalised density; par[0] is the mean pt and par[1]
// the normalisation constant.
func boltzmannNorm(x float64, par []float64) float64 {
	return par[1] * x * math.Exp(-x/(par[0]/2))
}

// Model is a thermal background density over a pt window plus the particle
// buffer filled by the last Generate or Subtract call.
type Model struct {
	params    Params
	density   *numfunc.Func
	rng       *rand.Rand
	npx       int
	rebuilds  int
	particles []particle.Particle
}

// Option configures a Model at construction.
type Option func(*Model)

// WithRand sets the random source used by Generate.
func WithRand(r *rand.Rand) Option {
	return func(m *Model) { m.rng = r }
}

// WithSeed seeds a private PCG source.
func WithSeed(seed uint64) Option {
	return func(m *Model) { m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithSamplingPoints sets the number of bins of the sampling table.
// Values below 1 keep the default.
func WithSamplingPoints(n int) Option {
	return func(m *Model) {
		if n >= 1 {
			m.npx = n
		}
	}
}

// New returns a model built with DefaultParams.
func New(opts ...Option) *Model {
	return NewWithParams(DefaultParams.MeanPt, DefaultParams.MinPt, DefaultParams.MaxPt, opts...)
}

// NewWithParams returns a model built for the given mean pt and window.
// Parameters are not validated; see Params.Validate.
func NewWithParams(meanPt, minPt, maxPt float64, opts ...Option) *Model {
	m := &Model{params: Unset, npx: numfunc.DefaultNpx}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.Reset(meanPt, minPt, maxPt)
	return m
}

// NewFromConfig returns a model built from a validated Config.
func NewFromConfig(c *Config, opts ...Option) (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid background config: %w", err)
	}
	p := c.ToParams()
	return NewWithParams(p.MeanPt, p.MinPt, p.MaxPt, append(c.Options(), opts...)...), nil
}

// NewFromTuning is shorthand for NewFromConfig(ConfigFromTuning(cfg), opts...).
func NewFromTuning(cfg *config.TuningConfig, opts ...Option) (*Model, error) {
	return NewFromConfig(ConfigFromTuning(cfg), opts...)
}

// Reset sets the model parameters. The density is rebuilt only when at
// least one of them differs from the current value; the particle buffer is
// cleared either way. Reset reports whether a rebuild happened.
func (m *Model) Reset(meanPt, minPt, maxPt float64) bool {
	m.particles = m.particles[:0]
	next := Params{MeanPt: meanPt, MinPt: minPt, MaxPt: maxPt}
	if next == m.params {
		return false
	}
	m.params = next

	tmp := numfunc.New("boltzmann_tmp", boltzmann, minPt, maxPt, 1)
	tmp.SetParameter(0, meanPt)
	integral := tmp.Integral(minPt, maxPt)
	if integral == 0 {
		integral = zeroIntegral
	}

	g := numfunc.New("boltzmann_background", boltzmannNorm, minPt, maxPt, 2)
	g.SetNpx(m.npx)
	g.SetParameters(meanPt, 1/integral)
	m.density = g
	m.rebuilds++

	if err := next.Validate(); err != nil {
		Opsf("suspicious parameters %v: %v", next, err)
	}
	Diagf("rebuilt density %v C=%g", next, g.Parameter(1))
	return true
}

// Eval returns the normalised density at pt. The window is not enforced.
func (m *Model) Eval(pt float64) float64 { return m.density.Eval(pt) }

// Integral returns the integral of the density over [MinPt, MaxPt], which is
// 1 up to quadrature accuracy.
func (m *Model) Integral() float64 {
	return m.density.Integral(m.params.MinPt, m.params.MaxPt)
}

// Constant returns the normalisation constant C.
func (m *Model) Constant() float64 { return m.density.Parameter(1) }

// Params returns the current parameters.
func (m *Model) Params() Params { return m.params }

// Rebuilds returns how many times the density has been built.
func (m *Model) Rebuilds() int { return m.rebuilds }

// Formula returns the density in ROOT formula syntax.
func (m *Model) Formula() string {
	return fmt.Sprintf("%f * x[0] * TMath::Exp(-(x[0] / %f))",
		m.density.Parameter(1), m.density.Parameter(0))
}

// String describes the model parameters.
func (m *Model) String() string {
	return fmt.Sprintf("\n[i] BoltzmannBackground with \n    fmean_pt=%f\n    fmin_pt=%f\n    fmax_pt=%f\n",
		m.params.MeanPt, m.params.MinPt, m.params.MaxPt)
}

// Particles returns a copy of the particle buffer.
func (m *Model) Particles() []particle.Particle {
	out := make([]particle.Particle, len(m.particles))
	copy(out, m.particles)
	return out
}
