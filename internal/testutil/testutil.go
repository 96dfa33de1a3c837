// Package testutil provides shared helpers for package and command tests.
//
// Typical usage:
//
//	func TestCommand(t *testing.T) {
//	    path := testutil.WriteWorkspace(t, map[string]*array.Array{
//	        "x": array.Vector[float64](1, 2, 3),
//	    })
//	    ...
//	    testutil.AssertFloatsNear(t, got, []float64{1, 2, 3}, 0)
//	}
package testutil

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/workspace"
)

// WriteWorkspace saves vars into a fresh workspace file under tb.TempDir and
// returns its path.
func WriteWorkspace(tb testing.TB, vars map[string]*array.Array) string {
	tb.Helper()

	ws := workspace.New()
	for name, a := range vars {
		if _, err := ws.Set(name, a); err != nil {
			tb.Fatalf("workspace set %q: %v", name, err)
		}
	}

	path := filepath.Join(tb.TempDir(), "ws.safetensors")
	if err := ws.Save(path); err != nil {
		tb.Fatalf("workspace save: %v", err)
	}

	return path
}

// ReadVar loads one variable from a workspace file.
func ReadVar(tb testing.TB, path, name string) *array.Array {
	tb.Helper()

	ws, err := workspace.Open(path)
	if err != nil {
		tb.Fatalf("open workspace: %v", err)
	}

	v, err := ws.Var(name)
	if err != nil {
		tb.Fatalf("workspace: %v", err)
	}

	return v.Value()
}

// AssertFloatsNear fails unless got and want have the same length and every
// element is within tol. NaN matches NaN; tol 0 demands exact equality.
func AssertFloatsNear(tb testing.TB, got, want []float64, tol float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length = %d, want %d (got %v)", len(got), len(want), got)
	}

	for i := range want {
		g, w := got[i], want[i]
		if math.IsNaN(w) && math.IsNaN(g) {
			continue
		}

		if g == w {
			continue
		}

		if math.Abs(g-w) > tol {
			tb.Fatalf("[%d] = %v, want %v (tolerance %v)", i, g, w, tol)
		}
	}
}

// AssertBitsEqual fails unless got and want are identical bit for bit, which
// distinguishes signed zeros and NaN payloads.
func AssertBitsEqual(tb testing.TB, got, want []float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if math.Float64bits(got[i]) != math.Float64bits(want[i]) {
			tb.Fatalf("[%d] = %v (%#x), want %v (%#x)", i, got[i], math.Float64bits(got[i]), want[i], math.Float64bits(want[i]))
		}
	}
}
