// Package kernel implements the sequential numeric kernels behind vops.
//
// Every kernel is written once, generically over Float, and is instantiated
// for float32 and float64. Kernels never inspect element kinds, never
// allocate and assume all slices have the length of the first argument.
// Sums are accumulated left to right so results are reproducible.
package kernel

import "math"

// Float is the set of element types the kernels are instantiated for.
type Float interface {
	~float32 | ~float64
}

func abs[T Float](v T) T {
	return T(math.Abs(float64(v)))
}

// same reports whether a and b start at the same element.
func same[T Float](a, b []T) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// Norm1 returns the sum of absolute values of x.
func Norm1[T Float](x []T) T {
	var s T
	for _, v := range x {
		s += abs(v)
	}

	return s
}

// Norm2 returns the Euclidean norm of x. A single element is returned as its
// absolute value without the square/root round trip.
func Norm2[T Float](x []T) T {
	if len(x) == 1 {
		return abs(x[0])
	}

	var s T
	for _, v := range x {
		s += v * v
	}

	return T(math.Sqrt(float64(s)))
}

// NormInf returns the largest absolute value of x. The running maximum is
// only replaced by a strictly greater value, so the first maximal element
// wins and NaN elements are skipped.
func NormInf[T Float](x []T) T {
	if len(x) == 1 {
		return abs(x[0])
	}

	var s T
	for _, v := range x {
		if a := abs(v); s < a {
			s = a
		}
	}

	return s
}
