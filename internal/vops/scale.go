package vops

import (
	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/kernel"
)

// Scale returns alpha*x in a new array. Float32 operands give a Float32
// result, every other real kind a Float64 one.
func Scale(x array.Operand, alpha float64) (*array.Array, error) {
	const op = "scale"

	a, err := realOperand(op, "x", x)
	if err != nil {
		return nil, err
	}

	kind := working(a.Kind())
	src := coerce(op, "x", a, kind)

	// A coerced operand is already a private copy and can be scaled in place.
	dst := src
	if src == a {
		if dst, err = array.Zeros(kind, a.RawShape()); err != nil {
			return nil, err
		}
	}

	scaleInto(dst, alpha, src)

	return dst, nil
}

// ScaleInPlace multiplies x by alpha in place. When x is not already Float32
// or Float64 it is converted to Float64, which requires x to be a Location;
// the location is rebound to the converted array.
func ScaleInPlace(x array.Operand, alpha float64) error {
	const op = "scale"

	a, err := realOperand(op, "x", x)
	if err != nil {
		return err
	}

	kind := working(a.Kind())
	if a.Kind() != kind {
		loc, err := assignable(op, "x", x)
		if err != nil {
			return err
		}

		a = coerce(op, "x", a, kind)
		rebind(op, loc, a)
	}

	scaleInto(a, alpha, a)

	return nil
}

func scaleInto(dst *array.Array, alpha float64, src *array.Array) {
	if dst.Kind() == array.Float32 {
		kernel.Scale(dst.Float32s(), float32(alpha), src.Float32s())
		return
	}

	kernel.Scale(dst.Float64s(), alpha, src.Float64s())
}

// Update computes y += alpha*x in place. x and y must have the same shape.
// When the working precision differs from y's kind, y is converted and
// rebound, so it must then be a Location. Nothing is modified when the call
// fails.
func Update(y array.Operand, alpha float64, x array.Operand) error {
	const op = "update"

	ya, err := realOperand(op, "y", y)
	if err != nil {
		return err
	}

	xa, err := realOperand(op, "x", x)
	if err != nil {
		return err
	}

	if err := sameShape(op, xa, ya, "x", "y"); err != nil {
		return err
	}

	kind, err := Promote(xa.Kind(), ya.Kind())
	if err != nil {
		return err
	}

	kind = working(kind)

	var loc array.Location
	if ya.Kind() != kind {
		if loc, err = assignable(op, "y", y); err != nil {
			return err
		}
	}

	xa = coerce(op, "x", xa, kind)
	if loc != nil {
		ya = coerce(op, "y", ya, kind)
		rebind(op, loc, ya)
	}

	if kind == array.Float32 {
		kernel.Update(ya.Float32s(), float32(alpha), xa.Float32s())
	} else {
		kernel.Update(ya.Float64s(), alpha, xa.Float64s())
	}

	return nil
}
