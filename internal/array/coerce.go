package array

import "fmt"

// Coerce returns a holding the same values as kind. When a already has that
// kind it is returned as is; otherwise a converted copy is allocated. Only
// real arrays can be coerced, and only to Float32 or Float64.
func Coerce(a *Array, kind Kind) (*Array, error) {
	if a.kind == kind {
		return a, nil
	}

	if !a.kind.IsReal() {
		return nil, fmt.Errorf("array: cannot coerce %v to %v", a.kind, kind)
	}

	var data any

	switch kind {
	case Float32:
		data = convertTo[float32](a.data)
	case Float64:
		data = convertTo[float64](a.data)
	default:
		return nil, fmt.Errorf("array: cannot coerce %v to %v", a.kind, kind)
	}

	return &Array{kind: kind, shape: a.shape.Clone(), data: data}, nil
}

func convertTo[D float32 | float64](src any) []D {
	switch s := src.(type) {
	case []uint8:
		return convert[uint8, D](s)
	case []int16:
		return convert[int16, D](s)
	case []int32:
		return convert[int32, D](s)
	case []int64:
		return convert[int64, D](s)
	case []float32:
		return convert[float32, D](s)
	case []float64:
		return convert[float64, D](s)
	default:
		panic(fmt.Sprintf("array: convert from %T", src))
	}
}

func convert[S realElem, D float32 | float64](src []S) []D {
	out := make([]D, len(src))
	for i, v := range src {
		out[i] = D(v)
	}

	return out
}
