package vops

import (
	"fmt"
	"log/slog"

	"github.com/example/go-vops/internal/array"
)

// realOperand obtains the array behind op and rejects anything that is not
// real-valued.
func realOperand(op, name string, x array.Operand) (*array.Array, error) {
	if x == nil || x.Value() == nil {
		return nil, fmt.Errorf("vops: %s: argument `%s` is missing: %w", op, name, ErrArity)
	}

	a := x.Value()
	if !a.Kind().IsReal() {
		return nil, fmt.Errorf("vops: %s: argument `%s` has kind %v: %w", op, name, a.Kind(), ErrNotRealValued)
	}

	return a, nil
}

func sameShape(op string, a, b *array.Array, na, nb string) error {
	if !SameShape(a.RawShape(), b.RawShape()) {
		return fmt.Errorf("vops: %s: `%s` %v and `%s` %v: %w", op, na, a.RawShape(), nb, b.RawShape(), ErrShapeMismatch)
	}

	return nil
}

// coerce converts a to kind, copying only when the kind differs.
func coerce(op, name string, a *array.Array, kind array.Kind) *array.Array {
	if a.Kind() == kind {
		return a
	}

	c, err := array.Coerce(a, kind)
	if err != nil {
		// Callers only coerce real arrays to a float kind.
		panic(err)
	}

	slog.Debug("vops: coerced operand",
		slog.String("op", op),
		slog.String("arg", name),
		slog.String("from", a.Kind().String()),
		slog.String("to", kind.String()),
	)

	return c
}

// assignable returns x as a Location or fails with ErrNotAssignable.
func assignable(op, name string, x array.Operand) (array.Location, error) {
	loc, ok := x.(array.Location)
	if !ok {
		return nil, fmt.Errorf("vops: %s: `%s` needs a new element type: %w", op, name, ErrNotAssignable)
	}

	return loc, nil
}

func rebind(op string, loc array.Location, a *array.Array) {
	loc.Rebind(a)

	attrs := []any{slog.String("op", op), slog.String("kind", a.Kind().String())}
	if v, ok := loc.(*array.Var); ok {
		attrs = append(attrs, slog.String("var", v.Name()))
	}

	slog.Debug("vops: rebound location", attrs...)
}
