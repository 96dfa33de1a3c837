package kernel

import "math"

func equalBits64(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}

	return true
}

func equalF64(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}

	return true
}

func toF32(v []float64) []float32 {
	if v == nil {
		return nil
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}

	return out
}

func toF64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}

	return out
}

func ramp(n int, scale float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i%17-8) * scale
	}

	return s
}
