package array

import (
	"errors"
	"fmt"
)

// Element is the set of Go types an Array can hold.
type Element interface {
	uint8 | int16 | int32 | int64 | float32 | float64 | complex128 | string
}

type realElem interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

// Array is a dense row-major buffer of a single element kind.
//
// An Array wraps the slice it was built from without copying: writes made
// through the vops in-place operations are visible in the caller's slice.
type Array struct {
	kind  Kind
	shape Shape
	data  any
}

// New wraps data as an array of the given shape. The caller must not resize
// data afterwards.
func New[T Element](data []T, shape Shape) (*Array, error) {
	kind := kindOf(data)

	n, err := shape.count()
	if err != nil {
		return nil, err
	}

	if len(data) != n {
		return nil, fmt.Errorf("array: data length %d does not match shape %v (%d elements)", len(data), shape, n)
	}

	return &Array{kind: kind, shape: shape.Clone(), data: data}, nil
}

// Vector wraps values as a rank-1 array.
func Vector[T Element](values ...T) *Array {
	if values == nil {
		values = []T{}
	}

	return &Array{kind: kindOf(values), shape: Shape{int64(len(values))}, data: values}
}

// Scalar returns a rank-0 Float64 array holding v.
func Scalar(v float64) *Array {
	return &Array{kind: Float64, data: []float64{v}}
}

// Zeros allocates a zero-filled array.
func Zeros(kind Kind, shape Shape) (*Array, error) {
	n, err := shape.count()
	if err != nil {
		return nil, err
	}

	var data any

	switch kind {
	case Uint8:
		data = make([]uint8, n)
	case Int16:
		data = make([]int16, n)
	case Int32:
		data = make([]int32, n)
	case Int64:
		data = make([]int64, n)
	case Float32:
		data = make([]float32, n)
	case Float64:
		data = make([]float64, n)
	case Complex128:
		data = make([]complex128, n)
	case String:
		data = make([]string, n)
	default:
		return nil, fmt.Errorf("array: cannot allocate kind %v", kind)
	}

	return &Array{kind: kind, shape: shape.Clone(), data: data}, nil
}

// FromFloats builds an array of the given kind from float64 values,
// converting each one. Complex arrays get a zero imaginary part.
func FromFloats(kind Kind, shape Shape, values []float64) (*Array, error) {
	if kind == String {
		return nil, errors.New("array: cannot build a string array from numbers")
	}

	n, err := shape.count()
	if err != nil {
		return nil, err
	}

	if len(values) != n {
		return nil, fmt.Errorf("array: %d values do not match shape %v (%d elements)", len(values), shape, n)
	}

	a, err := Zeros(kind, shape)
	if err != nil {
		return nil, err
	}

	switch d := a.data.(type) {
	case []uint8:
		fill(d, values)
	case []int16:
		fill(d, values)
	case []int32:
		fill(d, values)
	case []int64:
		fill(d, values)
	case []float32:
		fill(d, values)
	case []float64:
		copy(d, values)
	case []complex128:
		for i, v := range values {
			d[i] = complex(v, 0)
		}
	}

	return a, nil
}

// Value makes *Array an Operand that is not assignable.
func (a *Array) Value() *Array { return a }

func (a *Array) Kind() Kind { return a.kind }

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// RawShape returns the shape without copying. Callers must not modify it.
func (a *Array) RawShape() Shape { return a.shape }

func (a *Array) Rank() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int {
	switch d := a.data.(type) {
	case []uint8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []complex128:
		return len(d)
	case []string:
		return len(d)
	default:
		return 0
	}
}

// Data returns the backing slice.
func (a *Array) Data() any { return a.data }

// Float32s returns the backing slice of a Float32 array, nil otherwise.
func (a *Array) Float32s() []float32 {
	d, _ := a.data.([]float32)
	return d
}

// Float64s returns the backing slice of a Float64 array, nil otherwise.
func (a *Array) Float64s() []float64 {
	d, _ := a.data.([]float64)
	return d
}

// Float returns element i of a real array as float64.
func (a *Array) Float(i int) float64 {
	switch d := a.data.(type) {
	case []uint8:
		return float64(d[i])
	case []int16:
		return float64(d[i])
	case []int32:
		return float64(d[i])
	case []int64:
		return float64(d[i])
	case []float32:
		return float64(d[i])
	case []float64:
		return d[i]
	default:
		panic(fmt.Sprintf("array: Float on %v array", a.kind))
	}
}

// Floats returns a float64 copy of a real array's elements.
func (a *Array) Floats() ([]float64, error) {
	if !a.kind.IsReal() {
		return nil, fmt.Errorf("array: %v array has no real values", a.kind)
	}

	out := make([]float64, a.Len())
	for i := range out {
		out[i] = a.Float(i)
	}

	return out, nil
}

// ScalarValue returns the single value of a real one-element array.
func (a *Array) ScalarValue() (float64, error) {
	if !a.kind.IsReal() {
		return 0, fmt.Errorf("array: %v value is not a real scalar", a.kind)
	}

	if a.Len() != 1 {
		return 0, fmt.Errorf("array: expected a scalar, got shape %v", a.shape)
	}

	return a.Float(0), nil
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	var data any

	switch d := a.data.(type) {
	case []uint8:
		data = append([]uint8{}, d...)
	case []int16:
		data = append([]int16{}, d...)
	case []int32:
		data = append([]int32{}, d...)
	case []int64:
		data = append([]int64{}, d...)
	case []float32:
		data = append([]float32{}, d...)
	case []float64:
		data = append([]float64{}, d...)
	case []complex128:
		data = append([]complex128{}, d...)
	case []string:
		data = append([]string{}, d...)
	}

	return &Array{kind: a.kind, shape: a.shape.Clone(), data: data}
}

func (a *Array) String() string {
	return fmt.Sprintf("%v%v", a.kind, a.shape)
}

func kindOf(data any) Kind {
	switch data.(type) {
	case []uint8:
		return Uint8
	case []int16:
		return Int16
	case []int32:
		return Int32
	case []int64:
		return Int64
	case []float32:
		return Float32
	case []float64:
		return Float64
	case []complex128:
		return Complex128
	case []string:
		return String
	default:
		panic(fmt.Sprintf("array: unsupported element slice %T", data))
	}
}

func fill[D realElem](dst []D, src []float64) {
	for i, v := range src {
		dst[i] = D(v)
	}
}
