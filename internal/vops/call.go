package vops

import (
	"fmt"
	"sort"

	"github.com/example/go-vops/internal/array"
)

// Result is the outcome of Call: a scalar for norms and inner products, an
// array for out-of-place operations, or nothing for in-place ones.
type Result struct {
	Scalar    float64
	HasScalar bool
	Array     *array.Array
}

// OpInfo describes an operation accepted by Call.
type OpInfo struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	MinArgs int    `json:"min_args"`
	MaxArgs int    `json:"max_args"`
}

type opEntry struct {
	OpInfo
	run func(args []any) (Result, error)
}

var registry = map[string]opEntry{
	"norm1": {
		OpInfo: OpInfo{Name: "norm1", Usage: "norm1(x)", MinArgs: 1, MaxArgs: 1},
		run:    scalarOp(Norm1),
	},
	"norm2": {
		OpInfo: OpInfo{Name: "norm2", Usage: "norm2(x)", MinArgs: 1, MaxArgs: 1},
		run:    scalarOp(Norm2),
	},
	"norminf": {
		OpInfo: OpInfo{Name: "norminf", Usage: "norminf(x)", MinArgs: 1, MaxArgs: 1},
		run:    scalarOp(NormInf),
	},
	"inner": {
		OpInfo: OpInfo{Name: "inner", Usage: "inner([w,] x, y)", MinArgs: 2, MaxArgs: 3},
		run:    callInner,
	},
	"scale": {
		OpInfo: OpInfo{Name: "scale", Usage: "scale(x, alpha)", MinArgs: 2, MaxArgs: 2},
		run:    callScale,
	},
	"scale!": {
		OpInfo: OpInfo{Name: "scale!", Usage: "scale!(x, alpha)", MinArgs: 2, MaxArgs: 2},
		run:    callScaleInPlace,
	},
	"update": {
		OpInfo: OpInfo{Name: "update", Usage: "update(y, alpha, x)", MinArgs: 3, MaxArgs: 3},
		run:    callUpdate,
	},
	"combine": {
		OpInfo: OpInfo{Name: "combine", Usage: "combine([dst,] [alpha,] x, [beta,] y)", MinArgs: 2, MaxArgs: 5},
		run:    callCombine,
	},
}

// Ops lists the operations accepted by Call, sorted by name.
func Ops() []OpInfo {
	out := make([]OpInfo, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.OpInfo)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Call runs the operation called name. Each argument is an array.Operand or
// a number (float64, float32, int, int64). Numbers stand for scalar arrays
// where an operand is expected, and scalar arrays are accepted where a
// coefficient is expected.
func Call(name string, args ...any) (Result, error) {
	e, ok := registry[name]
	if !ok {
		return Result{}, fmt.Errorf("vops: %q: %w", name, ErrUnknownOperation)
	}

	if len(args) < e.MinArgs || len(args) > e.MaxArgs {
		return Result{}, fmt.Errorf("vops: usage: %s, got %d arguments: %w", e.Usage, len(args), ErrArity)
	}

	return e.run(args)
}

func scalarOp(fn func(array.Operand) (float64, error)) func([]any) (Result, error) {
	return func(args []any) (Result, error) {
		x, err := operandArg(args[0])
		if err != nil {
			return Result{}, err
		}

		v, err := fn(x)
		if err != nil {
			return Result{}, err
		}

		return Result{Scalar: v, HasScalar: true}, nil
	}
}

func callInner(args []any) (Result, error) {
	ops := make([]array.Operand, len(args))
	for i, a := range args {
		op, err := operandArg(a)
		if err != nil {
			return Result{}, err
		}

		ops[i] = op
	}

	v, err := Inner(ops...)
	if err != nil {
		return Result{}, err
	}

	return Result{Scalar: v, HasScalar: true}, nil
}

func callScale(args []any) (Result, error) {
	xArg, aArg := args[0], args[1]
	// Accept scale(alpha, x) when the coefficient is obviously an array.
	if op, ok := aArg.(array.Operand); ok && op.Value() != nil && op.Value().Rank() > 0 {
		xArg, aArg = aArg, xArg
	}

	x, err := operandArg(xArg)
	if err != nil {
		return Result{}, err
	}

	alpha, err := scalarArg("alpha", aArg)
	if err != nil {
		return Result{}, err
	}

	out, err := Scale(x, alpha)
	if err != nil {
		return Result{}, err
	}

	return Result{Array: out}, nil
}

func callScaleInPlace(args []any) (Result, error) {
	x, err := operandArg(args[0])
	if err != nil {
		return Result{}, err
	}

	alpha, err := scalarArg("alpha", args[1])
	if err != nil {
		return Result{}, err
	}

	return Result{}, ScaleInPlace(x, alpha)
}

func callUpdate(args []any) (Result, error) {
	y, err := operandArg(args[0])
	if err != nil {
		return Result{}, err
	}

	alpha, err := scalarArg("alpha", args[1])
	if err != nil {
		return Result{}, err
	}

	x, err := operandArg(args[2])
	if err != nil {
		return Result{}, err
	}

	return Result{}, Update(y, alpha, x)
}

// callCombine accepts (x, y), (dst, x, y), (alpha, x, beta, y) and
// (dst, alpha, x, beta, y); missing coefficients default to 1.
func callCombine(args []any) (Result, error) {
	var dstArg any

	alphaArg, betaArg := any(1.0), any(1.0)

	var xArg, yArg any

	switch len(args) {
	case 2:
		xArg, yArg = args[0], args[1]
	case 3:
		dstArg, xArg, yArg = args[0], args[1], args[2]
	case 4:
		alphaArg, xArg, betaArg, yArg = args[0], args[1], args[2], args[3]
	case 5:
		dstArg, alphaArg, xArg, betaArg, yArg = args[0], args[1], args[2], args[3], args[4]
	}

	var dst array.Operand

	if dstArg != nil {
		op, ok := dstArg.(array.Operand)
		if !ok {
			return Result{}, fmt.Errorf("vops: combine: destination must be an array, got %T: %w", dstArg, ErrNotAssignable)
		}

		dst = op
	}

	alpha, err := scalarArg("alpha", alphaArg)
	if err != nil {
		return Result{}, err
	}

	beta, err := scalarArg("beta", betaArg)
	if err != nil {
		return Result{}, err
	}

	x, err := operandArg(xArg)
	if err != nil {
		return Result{}, err
	}

	y, err := operandArg(yArg)
	if err != nil {
		return Result{}, err
	}

	out, err := Combine(dst, alpha, x, beta, y)
	if err != nil {
		return Result{}, err
	}

	return Result{Array: out}, nil
}

func operandArg(v any) (array.Operand, error) {
	switch t := v.(type) {
	case array.Operand:
		return t, nil
	case nil:
		return nil, fmt.Errorf("vops: missing operand: %w", ErrArity)
	}

	f, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("vops: unsupported operand type %T: %w", v, ErrNotRealValued)
	}

	return array.Scalar(f), nil
}

func scalarArg(name string, v any) (float64, error) {
	if op, ok := v.(array.Operand); ok {
		a := op.Value()
		if a == nil {
			return 0, fmt.Errorf("vops: `%s` is missing: %w", name, ErrArity)
		}

		if !a.Kind().IsReal() {
			return 0, fmt.Errorf("vops: `%s` has kind %v: %w", name, a.Kind(), ErrNotRealValued)
		}

		f, err := a.ScalarValue()
		if err != nil {
			return 0, fmt.Errorf("vops: `%s` must be a scalar, got shape %v: %w", name, a.RawShape(), ErrShapeMismatch)
		}

		return f, nil
	}

	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("vops: `%s` has unsupported type %T: %w", name, v, ErrNotRealValued)
	}

	return f, nil
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	default:
		return 0, false
	}
}
