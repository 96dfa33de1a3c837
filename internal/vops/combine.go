package vops

import (
	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/kernel"
)

// Combine computes alpha*x + beta*y.
//
// dst is an optional destination. Its array is overwritten and returned when
// it already has the working kind and the operands' shape. Otherwise a new
// array is allocated; if dst is a Location it is rebound to that array.
func Combine(dst array.Operand, alpha float64, x array.Operand, beta float64, y array.Operand) (*array.Array, error) {
	const op = "combine"

	xa, err := realOperand(op, "x", x)
	if err != nil {
		return nil, err
	}

	ya, err := realOperand(op, "y", y)
	if err != nil {
		return nil, err
	}

	if err := sameShape(op, xa, ya, "x", "y"); err != nil {
		return nil, err
	}

	kind, err := Promote(xa.Kind(), ya.Kind())
	if err != nil {
		return nil, err
	}

	kind = working(kind)
	xa = coerce(op, "x", xa, kind)
	ya = coerce(op, "y", ya, kind)

	out := reusable(dst, kind, xa.RawShape())
	fresh := out == nil
	if fresh {
		if out, err = array.Zeros(kind, xa.RawShape()); err != nil {
			return nil, err
		}
	}

	if kind == array.Float32 {
		kernel.Combine(out.Float32s(), float32(alpha), xa.Float32s(), float32(beta), ya.Float32s())
	} else {
		kernel.Combine(out.Float64s(), alpha, xa.Float64s(), beta, ya.Float64s())
	}

	if fresh {
		if loc, ok := dst.(array.Location); ok {
			rebind(op, loc, out)
		}
	}

	return out, nil
}

// reusable returns dst's array when it can hold the result as is.
func reusable(dst array.Operand, kind array.Kind, shape array.Shape) *array.Array {
	if dst == nil {
		return nil
	}

	d := dst.Value()
	if d == nil || d.Kind() != kind || !SameShape(d.RawShape(), shape) {
		return nil
	}

	return d
}
