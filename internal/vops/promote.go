package vops

import (
	"fmt"

	"github.com/example/go-vops/internal/array"
)

// SameShape reports whether a and b have the same rank and extents. A nil
// shape is the scalar shape.
func SameShape(a, b array.Shape) bool {
	if len(a) != len(b) {
		return false
	}

	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Promote returns the kind two operands must share: the wider of the two
// when both are numeric.
func Promote(a, b array.Kind) (array.Kind, error) {
	if a == b {
		return a, nil
	}

	if a.IsNumeric() && b.IsNumeric() {
		return max(a, b), nil
	}

	return 0, fmt.Errorf("vops: cannot promote %v and %v: %w", a, b, ErrIncompatibleTypes)
}

// Promote3 promotes three kinds pairwise.
func Promote3(a, b, c array.Kind) (array.Kind, error) {
	k, err := Promote(a, b)
	if err != nil {
		return 0, err
	}

	return Promote(k, c)
}

// working maps a promoted kind to the precision the kernels run in. Only
// Float32 stays single; integer operands run in double.
func working(k array.Kind) array.Kind {
	if k == array.Float32 {
		return array.Float32
	}

	return array.Float64
}
