package background

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jetbg/internal/config"
	"github.com/banshee-data/jetbg/internal/particle"
)

func TestReset_Normalises(t *testing.T) {
	t.Parallel()

	cases := []Params{
		DefaultParams,
		{MeanPt: 0.3, MinPt: 0.15, MaxPt: 5},
		{MeanPt: 1.5, MinPt: 0.5, MaxPt: 10},
		{MeanPt: 0.7, MinPt: 0, MaxPt: 2},
	}
	for _, p := range cases {
		t.Run(p.String(), func(t *testing.T) {
			t.Parallel()
			m := NewWithParams(p.MeanPt, p.MinPt, p.MaxPt, WithSeed(1))
			assert.InDelta(t, 1.0, m.Integral(), 1e-6)
			assert.Equal(t, p, m.Params())
		})
	}
}

func TestReset_Memoizes(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	require.Equal(t, 1, m.Rebuilds())
	c := m.Constant()

	assert.False(t, m.Reset(0.7, 0.15, 5.0))
	assert.Equal(t, 1, m.Rebuilds())
	assert.Equal(t, c, m.Constant())

	assert.True(t, m.Reset(0.8, 0.15, 5.0))
	assert.Equal(t, 2, m.Rebuilds())
	assert.NotEqual(t, c, m.Constant())

	// Each parameter participates in the comparison.
	assert.True(t, m.Reset(0.8, 0.2, 5.0))
	assert.True(t, m.Reset(0.8, 0.2, 4.0))
	assert.Equal(t, 4, m.Rebuilds())
}

func TestReset_ClearsBuffer(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(2))
	m.Generate(10, 1, 0)
	require.Len(t, m.Particles(), 10)

	m.Reset(0.7, 0.15, 5.0)
	assert.Empty(t, m.Particles(), "buffer is cleared even without a rebuild")
}

func TestReset_ZeroIntegral(t *testing.T) {
	t.Parallel()
	m := NewWithParams(0.7, 1, 1, WithSeed(1))
	// 1/zeroIntegral folds to exactly 1e9 at compile time; the runtime
	// division is one ulp away.
	assert.InEpsilon(t, 1/zeroIntegral, m.Constant(), 1e-12)
}

func TestEval_MatchesClosedForm(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	c := m.Constant()
	for _, x := range []float64{0.15, 0.5, 1, 3, 5} {
		assert.InDelta(t, c*x*math.Exp(-x/0.35), m.Eval(x), 1e-12)
	}
}

func TestFormulaAndString(t *testing.T) {
	t.Parallel()
	m := NewWithParams(0.5, 0.1, 3, WithSeed(1))
	want := fmt.Sprintf("%f * x[0] * TMath::Exp(-(x[0] / 0.500000))", m.Constant())
	assert.Equal(t, want, m.Formula())
	assert.Equal(t,
		"\n[i] BoltzmannBackground with \n    fmean_pt=0.500000\n    fmin_pt=0.100000\n    fmax_pt=3.000000\n",
		m.String())
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, DefaultParams.Validate())
	assert.Error(t, Params{MeanPt: 0, MinPt: 0.1, MaxPt: 1}.Validate())
	assert.Error(t, Params{MeanPt: 1, MinPt: -0.1, MaxPt: 1}.Validate())
	assert.Error(t, Params{MeanPt: 1, MinPt: 2, MaxPt: 1}.Validate())
	assert.Error(t, Unset.Validate())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults file", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
		m, err := NewFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, DefaultParams, m.Params())
		assert.Equal(t, cfg.SamplingPoints, m.density.Npx())
	})

	t.Run("builder", func(t *testing.T) {
		t.Parallel()
		cfg := ConfigFromTuning(config.EmptyTuningConfig()).
			WithMeanPt(1.2).
			WithWindow(0.2, 4).
			WithSamplingPoints(250).
			WithSeed(99)
		m, err := NewFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, Params{MeanPt: 1.2, MinPt: 0.2, MaxPt: 4}, m.Params())
		assert.Equal(t, 250, m.density.Npx())

		again, err := NewFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, m.Generate(20, 1, 0), again.Generate(20, 1, 0), "same seed, same sample")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := NewFromConfig(&Config{MeanPt: 1, MinPt: 3, MaxPt: 2, SamplingPoints: 100})
		assert.Error(t, err)
		_, err = NewFromConfig(&Config{MeanPt: 1, MinPt: 0.1, MaxPt: 2, SamplingPoints: 0})
		assert.Error(t, err)
	})

	t.Run("tuning", func(t *testing.T) {
		t.Parallel()
		mean := 0.9
		m, err := NewFromTuning(&config.TuningConfig{MeanPt: &mean}, WithSeed(3))
		require.NoError(t, err)
		assert.Equal(t, 0.9, m.Params().MeanPt)
	})
}

func TestLogWriters(t *testing.T) {
	var diag, trace bytes.Buffer
	SetLogWriters(LogWriters{Diag: &diag, Trace: &trace})
	defer SetLogWriters(LogWriters{})

	m := New(WithSeed(1))
	m.Subtract([]particle.Particle{particle.NewPtYPhiM(1, 0, 0, 0).WithIndex(7)}, 0.7, 1)

	assert.Contains(t, diag.String(), "[background diag] ")
	assert.Contains(t, diag.String(), "rebuilt density")
	assert.Contains(t, diag.String(), "total_pt=0.700000")
	assert.Contains(t, trace.String(), "[background trace] keep idx=7")
	assert.True(t, Enabled(StreamTrace))
	assert.False(t, Enabled(StreamOps))

	// Disabled streams stay silent.
	SetLogWriters(LogWriters{})
	diag.Reset()
	Diagf("discarded %d", 1)
	Opsf("discarded %d", 2)
	assert.Empty(t, diag.String())
	assert.False(t, Enabled(StreamTrace))
}
