package vops

import (
	"fmt"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/kernel"
)

// Norm1 returns the sum of absolute values of x.
func Norm1(x array.Operand) (float64, error) {
	return norm("norm1", x, kernel.Norm1[float32], kernel.Norm1[float64])
}

// Norm2 returns the Euclidean norm of x.
func Norm2(x array.Operand) (float64, error) {
	return norm("norm2", x, kernel.Norm2[float32], kernel.Norm2[float64])
}

// NormInf returns the largest absolute value in x.
func NormInf(x array.Operand) (float64, error) {
	return norm("norminf", x, kernel.NormInf[float32], kernel.NormInf[float64])
}

func norm(op string, x array.Operand, f32 func([]float32) float32, f64 func([]float64) float64) (float64, error) {
	a, err := realOperand(op, "x", x)
	if err != nil {
		return 0, err
	}

	a = coerce(op, "x", a, working(a.Kind()))
	if a.Kind() == array.Float32 {
		return float64(f32(a.Float32s())), nil
	}

	return f64(a.Float64s()), nil
}

// Inner returns the inner product of x and y, or the weighted inner product
// sum(w*x*y) when called with three operands w, x, y.
func Inner(ops ...array.Operand) (float64, error) {
	const op = "inner"

	var wOp, xOp, yOp array.Operand

	switch len(ops) {
	case 2:
		xOp, yOp = ops[0], ops[1]
	case 3:
		wOp, xOp, yOp = ops[0], ops[1], ops[2]
	default:
		return 0, fmt.Errorf("vops: usage: inner([w,] x, y), got %d arguments: %w", len(ops), ErrArity)
	}

	var w *array.Array

	if wOp != nil {
		var err error
		if w, err = realOperand(op, "w", wOp); err != nil {
			return 0, err
		}
	}

	x, err := realOperand(op, "x", xOp)
	if err != nil {
		return 0, err
	}

	y, err := realOperand(op, "y", yOp)
	if err != nil {
		return 0, err
	}

	if err := sameShape(op, x, y, "x", "y"); err != nil {
		return 0, err
	}

	var kind array.Kind

	if w == nil {
		kind, err = Promote(x.Kind(), y.Kind())
	} else {
		if err := sameShape(op, x, w, "x", "w"); err != nil {
			return 0, err
		}

		kind, err = Promote3(w.Kind(), x.Kind(), y.Kind())
	}

	if err != nil {
		return 0, err
	}

	kind = working(kind)
	x = coerce(op, "x", x, kind)
	y = coerce(op, "y", y, kind)

	if w == nil {
		if kind == array.Float32 {
			return float64(kernel.Inner(x.Float32s(), y.Float32s())), nil
		}

		return kernel.Inner(x.Float64s(), y.Float64s()), nil
	}

	w = coerce(op, "w", w, kind)
	if kind == array.Float32 {
		return float64(kernel.Inner3(w.Float32s(), x.Float32s(), y.Float32s())), nil
	}

	return kernel.Inner3(w.Float64s(), x.Float64s(), y.Float64s()), nil
}
