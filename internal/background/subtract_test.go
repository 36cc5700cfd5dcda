package background

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jetbg/internal/particle"
)

func TestGenerate_Cardinality(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(11))
	const (
		n      = 500
		maxEta = 0.9
		offset = 1000
	)
	ps := m.Generate(n, maxEta, offset)
	require.Len(t, ps, n)

	for i, p := range ps {
		assert.Equal(t, offset+i, p.UserIndex)
		assert.GreaterOrEqual(t, p.Pt(), DefaultParams.MinPt-1e-9)
		assert.LessOrEqual(t, p.Pt(), DefaultParams.MaxPt+1e-9)
		assert.GreaterOrEqual(t, p.Eta(), -maxEta-1e-9)
		assert.LessOrEqual(t, p.Eta(), maxEta+1e-9)
		assert.GreaterOrEqual(t, p.Phi(), -math.Pi)
		assert.LessOrEqual(t, p.Phi(), math.Pi)
		assert.InDelta(t, 0, p.M(), 1e-6)
	}
	assert.Equal(t, ps, m.Particles())
}

func TestGenerate_Empty(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	m.Generate(5, 1, 0)
	assert.Empty(t, m.Generate(0, 1, 0))
	assert.Empty(t, m.Generate(-3, 1, 0))
	assert.Empty(t, m.Particles())
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()
	a := New(WithSeed(5))
	b := New(WithSeed(5))
	assert.Equal(t, a.Generate(50, 1, 0), b.Generate(50, 1, 0))

	c := New(WithSeed(6))
	assert.NotEqual(t, a.Generate(50, 1, 0), c.Generate(50, 1, 0))
}

func TestGenerate_ReturnsCopy(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(5))
	ps := m.Generate(3, 1, 0)
	ps[0].UserIndex = 42
	assert.Equal(t, 0, m.Particles()[0].UserIndex)
}

func TestSubtract_PassThrough(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	hard := particle.NewPtYPhiM(100, 0.3, -1.2, 1.5).WithIndex(17)

	out := m.Subtract([]particle.Particle{hard}, 0.7, 1000)
	require.Len(t, out, 1)
	assert.Equal(t, hard, out[0])
	assert.Equal(t, 17, out[0].UserIndex)
	assert.InDelta(t, 100.0, out[0].Pt(), 1e-9)
}

func TestSubtract_Absorption(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	soft := particle.NewPtYPhiM(0.2, 0, 0, 0).WithIndex(3)

	// fraction = Eval(0.2) * 700 is far above 0.2 - MinPt.
	require.Greater(t, m.Eval(0.2)*700, 0.2-DefaultParams.MinPt)
	out := m.Subtract([]particle.Particle{soft}, 0.7, 1000)
	assert.Empty(t, out)
}

func TestSubtract_KeepsReducedParticle(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	p := particle.NewPtYPhiM(1, 0.4, 2.0, 0).WithIndex(9)

	out := m.Subtract([]particle.Particle{p}, 0.7, 1)
	require.Len(t, out, 1)
	q := out[0]
	assert.Equal(t, 9, q.UserIndex)
	assert.InDelta(t, 1-m.Eval(1)*0.7, q.Pt(), 1e-9)
	assert.InDelta(t, 0.4, q.Rapidity(), 1e-9)
	assert.InDelta(t, 2.0, q.Phi(), 1e-9)
	assert.Equal(t, 1, m.Rebuilds(), "mean equal to the current one does not rebuild")
}

func TestSubtract_ZeroCountKeepsModel(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	ps := []particle.Particle{
		particle.NewPtYPhiM(2, 0, 0, 0).WithIndex(0),
		particle.NewPtYPhiM(0.1, 0, 0, 0).WithIndex(1),
	}

	out := m.Subtract(ps, 3.0, 0)
	assert.Equal(t, DefaultParams, m.Params())
	// A zero total leaves pt untouched; only particles at or below MinPt go.
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].UserIndex)
	assert.InDelta(t, 2.0, out[0].Pt(), 1e-12)
}

func TestSubtract_ScanMatchesRecalc(t *testing.T) {
	t.Parallel()
	src := New(WithSeed(21))
	ps := src.Generate(200, 1, 0)
	ps = append(ps, particle.NewPtYPhiM(50, 0, 0, 0).WithIndex(999))

	var total float64
	var count int
	for _, p := range ps {
		if p.Pt() <= DefaultParams.MaxPt {
			total += p.Pt()
			count++
		}
	}
	mean := total / float64(count)

	a := New(WithSeed(1))
	outA := a.Subtract(ps, -1, -1)
	b := New(WithSeed(1))
	outB := b.SubtractRecalcFromVector(ps)

	assert.Equal(t, outA, outB)
	assert.InDelta(t, mean, a.Params().MeanPt, 1e-12)
	assert.InDelta(t, mean, b.Params().MeanPt, 1e-12)
	assert.Equal(t, DefaultParams.MinPt, b.Params().MinPt)
	assert.Equal(t, DefaultParams.MaxPt, b.Params().MaxPt)

	// The hard particle survives at the end, in input order.
	require.NotEmpty(t, outB)
	assert.Equal(t, 999, outB[len(outB)-1].UserIndex)
	for i := 1; i < len(outB); i++ {
		assert.Less(t, outB[i-1].UserIndex, outB[i].UserIndex)
	}
	assert.Equal(t, outB, b.Particles())
}

func TestSubtractRecalcFromVector_NothingBelowMax(t *testing.T) {
	t.Parallel()
	m := New(WithSeed(1))
	ps := []particle.Particle{particle.NewPtYPhiM(20, 0, 0, 0).WithIndex(4)}

	out := m.SubtractRecalcFromVector(ps)
	assert.Equal(t, ps, out)
	assert.Equal(t, 1, m.Rebuilds())
	assert.Empty(t, m.SubtractRecalcFromVector(nil))
}

func TestSubtract_NegativeSentinelsDoNotSeedScan(t *testing.T) {
	t.Parallel()
	ps := []particle.Particle{
		particle.NewPtYPhiM(1.2, 0, 0, 0).WithIndex(0),
		particle.NewPtYPhiM(2.5, 0.1, 1, 0).WithIndex(1),
		particle.NewPtYPhiM(30, -0.2, 2, 0).WithIndex(2),
	}

	for _, tc := range []struct {
		name string
		mean float64
		n    int
	}{
		{"negative mean and count", -1, -1},
		{"negative mean only", -1, 5},
		{"negative count only", 0.9, -3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := New(WithSeed(1))
			b := New(WithSeed(1))
			assert.Equal(t, b.SubtractRecalcFromVector(ps), a.Subtract(ps, tc.mean, tc.n))
			assert.InDelta(t, (1.2+2.5)/2, a.Params().MeanPt, 1e-12)
		})
	}
}
