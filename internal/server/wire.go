package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/example/go-vops/internal/array"
)

// Number is a float64 that survives JSON: non-finite values are written as
// the strings "NaN", "+Inf" and "-Inf" and accepted back in that form.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)

	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}

	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}

		*n = Number(f)

		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	*n = Number(f)

	return nil
}

// ArrayJSON is the wire form of an array. Data is row-major: numbers for
// real kinds, [re, im] pairs for complex128 and strings for string.
type ArrayJSON struct {
	DType string          `json:"dtype"`
	Shape []int64         `json:"shape"`
	Data  json.RawMessage `json:"data"`
}

// EncodeArray converts a to its wire form.
func EncodeArray(a *array.Array) (ArrayJSON, error) {
	out := ArrayJSON{DType: a.Kind().String(), Shape: a.Shape()}
	if out.Shape == nil {
		out.Shape = []int64{}
	}

	var data any

	switch v := a.Data().(type) {
	case []string:
		data = v
	case []complex128:
		pairs := make([][2]Number, len(v))
		for i, c := range v {
			pairs[i] = [2]Number{Number(real(c)), Number(imag(c))}
		}

		data = pairs
	default:
		floats, err := a.Floats()
		if err != nil {
			return ArrayJSON{}, err
		}

		nums := make([]Number, len(floats))
		for i, f := range floats {
			nums[i] = Number(f)
		}

		data = nums
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ArrayJSON{}, err
	}

	out.Data = raw

	return out, nil
}

// DecodeArray builds an array from its wire form. A missing shape means a
// vector holding all of data.
func DecodeArray(j ArrayJSON) (*array.Array, error) {
	kind, err := array.ParseKind(j.DType)
	if err != nil {
		return nil, err
	}

	data := j.Data
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("[]")
	}

	switch kind {
	case array.String:
		var s []string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}

		return array.New(s, shapeFor(j.Shape, len(s)))
	case array.Complex128:
		var pairs [][2]Number
		if err := json.Unmarshal(data, &pairs); err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}

		c := make([]complex128, len(pairs))
		for i, p := range pairs {
			c[i] = complex(float64(p[0]), float64(p[1]))
		}

		return array.New(c, shapeFor(j.Shape, len(c)))
	}

	var nums []Number
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	floats := make([]float64, len(nums))
	for i, n := range nums {
		floats[i] = float64(n)
	}

	return array.FromFloats(kind, shapeFor(j.Shape, len(floats)), floats)
}

func shapeFor(shape []int64, n int) array.Shape {
	if shape == nil {
		return array.Shape{int64(n)}
	}

	return array.Shape(shape)
}

// decodeArg turns one /eval argument into a vops.Call argument: a number,
// a {"var": name} reference or an inline array.
func decodeArg(raw json.RawMessage, vars func(string) (array.Operand, error)) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '{' {
		var n Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("argument must be a number, {\"var\": name} or an array: %w", err)
		}

		return float64(n), nil
	}

	var ref struct {
		Var *string `json:"var"`
		ArrayJSON
	}
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, err
	}

	if ref.Var != nil {
		return vars(*ref.Var)
	}

	if ref.DType == "" {
		return nil, errors.New("inline array needs a dtype")
	}

	return DecodeArray(ref.ArrayJSON)
}
