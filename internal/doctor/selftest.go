package doctor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/vops"
)

// SelfTest runs known-answer checks through the dispatchers in both working
// precisions and joins every mismatch into one error.
func SelfTest() error {
	var errs []error

	errs = append(errs, selfTest[float32]("float32")...)
	errs = append(errs, selfTest[float64]("float64")...)

	return errors.Join(errs...)
}

func selfTest[T float32 | float64](name string) []error {
	var errs []error

	check := func(what string, got, want float64, err error) {
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s %s: %w", name, what, err))
		case got != want:
			errs = append(errs, fmt.Errorf("%s %s = %v, want %v", name, what, got, want))
		}
	}

	v, err := vops.Inner(array.Vector[T](1, 2, 3), array.Vector[T](4, 5, 6))
	check("inner", v, 32, err)

	v, err = vops.Inner(array.Vector[T](1, 1, 1), array.Vector[T](1, 2, 3), array.Vector[T](4, 5, 6))
	check("weighted inner", v, 32, err)

	v, err = vops.Norm1(array.Vector[T](3, -7, 2))
	check("norm1", v, 12, err)

	v, err = vops.Norm2(array.Vector[T](3, 4))
	check("norm2", v, 5, err)

	v, err = vops.NormInf(array.Vector[T](3, -7, 2))
	check("norminf", v, 7, err)

	out, err := vops.Combine(nil, -1, array.Vector[T](1, 1, 1), -1, array.Vector[T](2, 2, 2))
	checkArray := func(what string, a *array.Array, want []float64, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", name, what, err))
			return
		}

		got, ferr := a.Floats()
		if ferr != nil || !slices.Equal(got, want) {
			errs = append(errs, fmt.Errorf("%s %s = %v, want %v", name, what, got, want))
		}
	}
	checkArray("combine", out, []float64{-3, -3, -3}, err)

	out, err = vops.Scale(array.Vector[T](1, -2, 4), 0.5)
	checkArray("scale", out, []float64{0.5, -1, 2}, err)

	y := array.Vector[T](1, 2, 3)
	err = vops.Update(y, 2, array.Vector[T](1, 1, 1))
	checkArray("update", y, []float64{3, 4, 5}, err)

	return errs
}
