package array

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape lists the extents of an array in row-major order. A nil or empty
// shape denotes a scalar.
type Shape []int64

// Len returns the number of elements described by s.
func (s Shape) Len() int {
	n, err := s.count()
	if err != nil {
		return 0
	}

	return n
}

// Validate rejects negative extents and element counts that overflow int.
func (s Shape) Validate() error {
	_, err := s.count()
	return err
}

// Clone returns a copy of s; the copy of a scalar shape is nil.
func (s Shape) Clone() Shape {
	if len(s) == 0 {
		return nil
	}

	return append(Shape(nil), s...)
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.FormatInt(d, 10)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

func (s Shape) count() (int, error) {
	total := int64(1)

	for i, d := range s {
		if d < 0 {
			return 0, fmt.Errorf("array: shape %v has negative dimension at %d", s, i)
		}

		if d == 0 {
			total = 0
			continue
		}

		if total > math.MaxInt64/d {
			return 0, fmt.Errorf("array: shape %v overflows element count", s)
		}

		total *= d
	}

	if total > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("array: shape %v exceeds platform int size", s)
	}

	return int(total), nil
}
