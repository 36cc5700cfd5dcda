// Package numfunc provides parametric one-dimensional functions with the
// numeric services the background model relies on: evaluation, definite
// integration and inverse-CDF sampling over a subrange.
//
// Integration uses gonum's fixed Gauss-Legendre quadrature applied piecewise;
// sampling tabulates the cumulative integral on Npx bins and inverts it by
// linear interpolation inside the selected bin.
package numfunc

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// DefaultNpx is the number of bins used to tabulate the cumulative
// distribution for sampling.
const DefaultNpx = 100

const (
	// quadraturePoints is the Legendre order used on each integration piece.
	quadraturePoints = 16
	// integralPieces splits the integration range to keep steep functions accurate.
	integralPieces = 32
)

// Formula evaluates a function of x with parameters par.
type Formula func(x float64, par []float64) float64

// Func is a named, parametric function defined over a [Min, Max] domain.
// A Func is not safe for concurrent use: Random caches its CDF table.
type Func struct {
	name    string
	formula Formula
	par     []float64
	min     float64
	max     float64
	npx     int

	table *cdfTable
}

// cdfTable is the tabulated cumulative integral used by Random. It is only
// valid for the parameters and range it was built from.
type cdfTable struct {
	par  []float64
	a, b float64
	xs   []float64
	cdf  []float64 // normalised so that cdf[len-1] == 1
	ok   bool
}

// New returns a function with npar parameters, all zero.
func New(name string, f Formula, min, max float64, npar int) *Func {
	return &Func{
		name:    name,
		formula: f,
		par:     make([]float64, npar),
		min:     min,
		max:     max,
		npx:     DefaultNpx,
	}
}

// Name returns the function name.
func (f *Func) Name() string { return f.name }

// Range returns the function domain.
func (f *Func) Range() (min, max float64) { return f.min, f.max }

// NPar returns the number of parameters.
func (f *Func) NPar() int { return len(f.par) }

// SetParameter sets parameter i. It panics if i is out of range.
func (f *Func) SetParameter(i int, v float64) {
	if f.par[i] != v {
		f.table = nil
	}
	f.par[i] = v
}

// SetParameters sets all parameters in order.
func (f *Func) SetParameters(vs ...float64) {
	for i, v := range vs {
		f.SetParameter(i, v)
	}
}

// Parameter returns parameter i. It panics if i is out of range.
func (f *Func) Parameter(i int) float64 { return f.par[i] }

// Parameters returns a copy of the parameter vector.
func (f *Func) Parameters() []float64 {
	out := make([]float64, len(f.par))
	copy(out, f.par)
	return out
}

// SetNpx sets the number of bins used by Random. Values below 1 are ignored.
func (f *Func) SetNpx(n int) {
	if n < 1 || n == f.npx {
		return
	}
	f.npx = n
	f.table = nil
}

// Npx returns the number of bins used by Random.
func (f *Func) Npx() int { return f.npx }

// Eval evaluates the function at x. The domain is not enforced.
func (f *Func) Eval(x float64) float64 {
	return f.formula(x, f.par)
}

// Integral returns the definite integral of the function from a to b.
// Reversed bounds give the negated integral.
func (f *Func) Integral(a, b float64) float64 {
	if a == b {
		return 0
	}
	if a > b {
		return -f.Integral(b, a)
	}
	eval := f.Eval
	step := (b - a) / integralPieces
	var sum float64
	for i := range integralPieces {
		lo := a + float64(i)*step
		hi := lo + step
		if i == integralPieces-1 {
			hi = b
		}
		sum += quad.Fixed(eval, lo, hi, quadraturePoints, quad.Legendre{}, 0)
	}
	return sum
}

// Random draws a value in [a, b] distributed as the function over that range,
// using rng as the entropy source. When the function has no positive weight on
// the range the draw falls back to uniform.
func (f *Func) Random(a, b float64, rng *rand.Rand) float64 {
	if a > b {
		a, b = b, a
	}
	t := f.cdf(a, b)
	r := rng.Float64()
	if !t.ok {
		return a + r*(b-a)
	}
	// First bin whose upper cumulative edge reaches r.
	i := sort.SearchFloat64s(t.cdf, r)
	if i == 0 {
		return t.xs[0]
	}
	if i >= len(t.cdf) {
		return t.xs[len(t.xs)-1]
	}
	lo, hi := t.cdf[i-1], t.cdf[i]
	dx := t.xs[i] - t.xs[i-1]
	if hi == lo {
		return t.xs[i-1] + r*dx
	}
	return t.xs[i-1] + dx*(r-lo)/(hi-lo)
}

func (f *Func) cdf(a, b float64) *cdfTable {
	if t := f.table; t != nil && t.a == a && t.b == b && floats.Equal(t.par, f.par) {
		return t
	}
	n := f.npx
	xs := floats.Span(make([]float64, n+1), a, b)
	w := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		v := quad.Fixed(f.Eval, xs[i-1], xs[i], quadraturePoints, quad.Legendre{}, 0)
		// Negative lobes carry no probability.
		w[i] = math.Max(v, 0)
	}
	cdf := floats.CumSum(make([]float64, n+1), w)
	total := cdf[n]
	t := &cdfTable{
		par: f.Parameters(),
		a:   a,
		b:   b,
		xs:  xs,
		cdf: cdf,
		ok:  total > 0 && !math.IsInf(total, 0) && !math.IsNaN(total),
	}
	if t.ok {
		floats.Scale(1/total, cdf)
		cdf[n] = 1
	}
	f.table = t
	return t
}

// String describes the function name, domain and parameters.
func (f *Func) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on [%g, %g]", f.name, f.min, f.max)
	for i, p := range f.par {
		fmt.Fprintf(&b, " p%d=%g", i, p)
	}
	return b.String()
}
