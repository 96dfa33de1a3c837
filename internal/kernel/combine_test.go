package kernel

import (
	"fmt"
	"math"
	"testing"
)

func TestCombine(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{10, 20, 30}

	tests := []struct {
		name        string
		alpha, beta float64
		want        []float64
	}{
		{"sum", 1, 1, []float64{11, 22, 33}},
		{"difference", 1, -1, []float64{-9, -18, -27}},
		{"x plus scaled y", 1, 0.5, []float64{6, 12, 18}},
		{"negated sum", -1, -1, []float64{-11, -22, -33}},
		{"y minus x", -1, 1, []float64{9, 18, 27}},
		{"scaled y minus x", -1, 2, []float64{19, 38, 57}},
		{"general", 2, 3, []float64{32, 64, 96}},
		{"alpha zero", 0, 5, []float64{50, 100, 150}},
		{"beta zero swaps", 4, 0, []float64{4, 8, 12}},
		{"both zero", 0, 0, []float64{0, 0, 0}},
		{"beta one swaps", 3, 1, []float64{13, 26, 39}},
		{"beta minus one swaps", 3, -1, []float64{-7, -14, -21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float64, len(x))
			Combine(dst, tt.alpha, x, tt.beta, y)
			if !equalF64(dst, tt.want, 0) {
				t.Fatalf("Combine(%v, x, %v, y) = %v; want %v", tt.alpha, tt.beta, dst, tt.want)
			}

			dst32 := make([]float32, len(x))
			Combine(dst32, float32(tt.alpha), toF32(x), float32(tt.beta), toF32(y))
			if !equalF64(toF64(dst32), tt.want, 0) {
				t.Fatalf("Combine[float32] = %v; want %v", dst32, tt.want)
			}
		})
	}
}

func TestCombineScenario(t *testing.T) {
	dst := make([]float64, 3)
	Combine(dst, -1, []float64{1, 1, 1}, -1, []float64{2, 2, 2})
	if !equalF64(dst, []float64{-3, -3, -3}, 0) {
		t.Fatalf("Combine = %v; want [-3 -3 -3]", dst)
	}
}

func TestCombineZeroAlphaMatchesScale(t *testing.T) {
	x := []float64{math.NaN(), math.Inf(1), 1}
	y := []float64{1, math.Copysign(0, -1), -2}

	got := make([]float64, 3)
	Combine(got, 0, x, 5, y)

	want := make([]float64, 3)
	Scale(want, 5, y)

	if !equalBits64(got, want) {
		t.Fatalf("Combine(0, x, 5, y) = %v; want Scale(5, y) = %v", got, want)
	}
}

func TestCombineSkipsZeroTermSignedZero(t *testing.T) {
	// 1*(-0) + 0*5 would be +0; skipping the zero term keeps -0.
	dst := make([]float64, 1)
	Combine(dst, 1, []float64{math.Copysign(0, -1)}, 0, []float64{5})
	if !math.Signbit(dst[0]) {
		t.Fatalf("Combine = %v; want -0", dst[0])
	}

	// A zero coefficient also keeps NaN in the dropped operand out.
	Combine(dst, 2, []float64{3}, 0, []float64{math.NaN()})
	if dst[0] != 6 {
		t.Fatalf("Combine = %v; want 6", dst[0])
	}
}

func TestCombineAliasing(t *testing.T) {
	t.Run("dst is x", func(t *testing.T) {
		x := []float64{1, 2, 3}
		Combine(x, 2, x, 3, []float64{1, 1, 1})
		if !equalF64(x, []float64{5, 7, 9}, 0) {
			t.Fatalf("Combine = %v; want [5 7 9]", x)
		}
	})

	t.Run("dst is y", func(t *testing.T) {
		y := []float64{1, 2, 3}
		Combine(y, 1, []float64{1, 1, 1}, -1, y)
		if !equalF64(y, []float64{0, -1, -2}, 0) {
			t.Fatalf("Combine = %v; want [0 -1 -2]", y)
		}
	})

	t.Run("x is y", func(t *testing.T) {
		x := []float32{1, 2, 3}
		dst := make([]float32, 3)
		Combine(dst, 1, x, 1, x)
		if !equalF64(toF64(dst), []float64{2, 4, 6}, 0) {
			t.Fatalf("Combine = %v; want [2 4 6]", dst)
		}
	})
}

func TestCost(t *testing.T) {
	tests := []struct {
		c, other float64
		want     int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{-1, 3, 1},
		{1, 0, 2},
		{2, 3, 2},
	}

	for _, tt := range tests {
		if got := cost(tt.c, tt.other); got != tt.want {
			t.Errorf("cost(%v, %v) = %d; want %d", tt.c, tt.other, got, tt.want)
		}
	}
}

func BenchmarkCombine(b *testing.B) {
	for _, n := range []int{8, 512, 4096} {
		x := ramp(n, 0.5)
		y := ramp(n, 0.25)
		dst := make([]float64, n)

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for range b.N {
				Combine(dst, 0.3, x, 1.7, y)
			}
		})
	}
}
