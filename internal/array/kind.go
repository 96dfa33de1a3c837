// Package array holds the dense, typed buffers that vops operates on and the
// small host contracts around them: obtaining an operand, coercing it to a
// working precision, allocating results and rebinding mutable locations.
package array

import (
	"fmt"
	"strings"
)

// Kind is the element type of an Array. Kinds are ordered from narrowest to
// widest; every kind up to Float64 is real-valued.
type Kind int

// Supported element kinds.
const (
	Uint8 Kind = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	Complex128
	String
)

func (k Kind) String() string {
	switch k {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsReal reports whether k is a real-valued numeric kind.
func (k Kind) IsReal() bool {
	return k >= Uint8 && k <= Float64
}

// IsNumeric reports whether k is real or complex.
func (k Kind) IsNumeric() bool {
	return k >= Uint8 && k <= Complex128
}

// ParseKind is the inverse of Kind.String. It also accepts the aliases
// "single", "float" and "double".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint8", "u8", "char", "byte":
		return Uint8, nil
	case "int16", "i16", "short":
		return Int16, nil
	case "int32", "i32", "int":
		return Int32, nil
	case "int64", "i64", "long":
		return Int64, nil
	case "float32", "f32", "single", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	case "complex128", "complex":
		return Complex128, nil
	case "string":
		return String, nil
	default:
		return 0, fmt.Errorf("array: unknown kind %q", s)
	}
}
