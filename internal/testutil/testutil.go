// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/banshee-data/jetbg/internal/particle"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TempDBPath returns a database path inside a per-test temporary directory.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "jetbg_test.db")
}

// Ring returns n massless particles of equal pt evenly spaced in azimuth at
// rapidity y, labelled offset, offset+1, ...
func Ring(n int, pt, y float64, offset int) []particle.Particle {
	out := make([]particle.Particle, n)
	for i := range n {
		phi := -math.Pi + (float64(i)+0.5)*2*math.Pi/float64(n)
		out[i] = particle.NewPtYPhiM(pt, y, phi, 0).WithIndex(offset + i)
	}
	return out
}

// AssertParticlesClose compares four-momenta within tol and identifiers
// exactly.
func AssertParticlesClose(t *testing.T, want, got []particle.Particle, tol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("particle count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.UserIndex != g.UserIndex {
			t.Errorf("particle %d: UserIndex = %d, want %d", i, g.UserIndex, w.UserIndex)
		}
		for k, pair := range [][2]float64{{w.Px(), g.Px()}, {w.Py(), g.Py()}, {w.Pz(), g.Pz()}, {w.E(), g.E()}} {
			if math.Abs(pair[0]-pair[1]) > tol {
				t.Errorf("particle %d: component %d = %g, want %g", i, k, pair[1], pair[0])
			}
		}
	}
}
