package vops

import (
	"math"
	"testing"

	"github.com/example/go-vops/internal/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew[T array.Element](t *testing.T, data []T, shape array.Shape) *array.Array {
	t.Helper()

	a, err := array.New(data, shape)
	require.NoError(t, err)

	return a
}

func TestSameShape(t *testing.T) {
	s := array.Shape{2, 3}

	tests := []struct {
		name string
		a, b array.Shape
		want bool
	}{
		{"nil and empty", nil, array.Shape{}, true},
		{"identical", s, s, true},
		{"equal extents", array.Shape{2, 3}, array.Shape{2, 3}, true},
		{"rank differs", array.Shape{6}, array.Shape{2, 3}, false},
		{"extent differs", array.Shape{2, 3}, array.Shape{3, 2}, false},
		{"scalar vs vector", nil, array.Shape{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameShape(tt.a, tt.b))
			assert.Equal(t, tt.want, SameShape(tt.b, tt.a))
		})
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b    array.Kind
		want    array.Kind
		wantErr bool
	}{
		{array.Float32, array.Float32, array.Float32, false},
		{array.Float32, array.Float64, array.Float64, false},
		{array.Float64, array.Float32, array.Float64, false},
		{array.Int16, array.Float32, array.Float32, false},
		{array.Int64, array.Int32, array.Int64, false},
		{array.Complex128, array.Float64, array.Complex128, false},
		{array.String, array.String, array.String, false},
		{array.String, array.Float64, 0, true},
		{array.Float32, array.String, 0, true},
	}

	for _, tt := range tests {
		got, err := Promote(tt.a, tt.b)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrIncompatibleTypes, "%v,%v", tt.a, tt.b)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v,%v", tt.a, tt.b)
	}

	k, err := Promote3(array.Float32, array.Int16, array.Float64)
	require.NoError(t, err)
	assert.Equal(t, array.Float64, k)

	_, err = Promote3(array.Float32, array.Float32, array.String)
	require.ErrorIs(t, err, ErrIncompatibleTypes)
}

func TestScenarios(t *testing.T) {
	v, err := Inner(array.Vector[float64](1, 2, 3), array.Vector[float64](4, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, 32.0, v)

	v, err = Norm2(array.Vector[float64](3, 4))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = NormInf(array.Vector[float64](3, -7, 2))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	out, err := Combine(nil, -1, array.Vector[float64](1, 1, 1), -1, array.Vector[float64](2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -3, -3}, out.Float64s())
}

func TestNorms(t *testing.T) {
	v, err := Norm1(array.Vector[float64]())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Norm1(array.Vector[float32](1, -2, 3))
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = Norm2(array.Vector[float32](-0.1))
	require.NoError(t, err)
	assert.Equal(t, float64(float32(0.1)), v, "single element norm2 is exact")

	v, err = Norm2(mustNew(t, []int16{3, 4}, array.Shape{2}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = Norm2(array.Vector(1 + 1i))
	require.ErrorIs(t, err, ErrNotRealValued)

	_, err = NormInf(array.Vector("a"))
	require.ErrorIs(t, err, ErrNotRealValued)

	_, err = Norm1(nil)
	require.ErrorIs(t, err, ErrArity)
}

func TestInner(t *testing.T) {
	x := array.Vector[float64](1, 2, 3)
	y := array.Vector[float32](4, 5, 6)
	w := array.Vector[float32](1, 0.5, 2)

	xy, err := Inner(x, y)
	require.NoError(t, err)
	yx, err := Inner(y, x)
	require.NoError(t, err)
	assert.Equal(t, xy, yx)

	v, err := Inner(w, x, y)
	require.NoError(t, err)
	assert.Equal(t, 45.0, v)

	// A double weight promotes single operands to double.
	v, err = Inner(array.Vector[float64](1+1e-10), array.Vector[float32](1), array.Vector[float32](1))
	require.NoError(t, err)
	assert.Equal(t, 1+1e-10, v)

	v, err = Inner(mustNew(t, []int32{1, 2}, array.Shape{2}), mustNew(t, []uint8{3, 4}, array.Shape{2}))
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)

	_, err = Inner(x)
	require.ErrorIs(t, err, ErrArity)

	_, err = Inner(x, array.Vector[float64](1, 2))
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Inner(array.Vector[float64](1), x, y)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Inner(array.Vector(1i, 2i, 3i), x, y)
	require.ErrorIs(t, err, ErrNotRealValued)
}

func TestScale(t *testing.T) {
	x := array.Vector(1.0, math.NaN(), math.Inf(1))

	out, err := Scale(x, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, out.Float64s())
	assert.True(t, math.IsNaN(x.Float64s()[1]), "operand must be untouched")

	y := array.Vector[float32](1, -2)
	out, err = Scale(y, 1)
	require.NoError(t, err)
	assert.Equal(t, array.Float32, out.Kind())
	assert.Equal(t, []float32{1, -2}, out.Float32s())
	assert.NotSame(t, y, out)

	ints := mustNew(t, []int64{1, 2, 3, 4}, array.Shape{2, 2})
	out, err = Scale(ints, 0.5)
	require.NoError(t, err)
	assert.Equal(t, array.Float64, out.Kind())
	assert.Equal(t, array.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, out.Float64s())
	assert.Equal(t, []int64{1, 2, 3, 4}, ints.Data())

	_, err = Scale(array.Vector(1i), 2)
	require.ErrorIs(t, err, ErrNotRealValued)
}

func TestScaleInPlace(t *testing.T) {
	data := []float64{1, 2, 3}
	x := mustNew(t, data, array.Shape{3})
	require.NoError(t, ScaleInPlace(x, -2))
	assert.Equal(t, []float64{-2, -4, -6}, data)

	require.NoError(t, ScaleInPlace(x, 1))
	assert.Equal(t, []float64{-2, -4, -6}, data)

	ints := mustNew(t, []int32{1, 2}, array.Shape{2})
	err := ScaleInPlace(ints, 3)
	require.ErrorIs(t, err, ErrNotAssignable)
	assert.Equal(t, []int32{1, 2}, ints.Data())

	v := array.NewVar("v", ints)
	require.NoError(t, ScaleInPlace(v, 3))
	assert.Equal(t, array.Float64, v.Value().Kind())
	assert.Equal(t, []float64{3, 6}, v.Value().Float64s())
}

func TestUpdate(t *testing.T) {
	t.Run("zero alpha ignores NaN", func(t *testing.T) {
		y := array.Vector(1.0, math.Copysign(0, -1))
		require.NoError(t, Update(y, 0, array.Vector(math.NaN(), math.Inf(1))))
		assert.Equal(t, 1.0, y.Float64s()[0])
		assert.True(t, math.Signbit(y.Float64s()[1]))
	})

	t.Run("same precision", func(t *testing.T) {
		y := array.Vector[float32](1, 2, 3)
		require.NoError(t, Update(y, 0.5, array.Vector[float32](4, 5, 6)))
		assert.Equal(t, []float32{3, 4.5, 6}, y.Float32s())
	})

	t.Run("x is widened to y", func(t *testing.T) {
		y := array.Vector[float64](1, 2)
		require.NoError(t, Update(y, -1, array.Vector[float32](1, 1)))
		assert.Equal(t, []float64{0, 1}, y.Float64s())
	})

	t.Run("y needs promotion but is a temporary", func(t *testing.T) {
		y := array.Vector[float32](1, 2)
		err := Update(y, 1, array.Vector[float64](1, 1))
		require.ErrorIs(t, err, ErrNotAssignable)
		assert.Equal(t, []float32{1, 2}, y.Float32s())
	})

	t.Run("y variable is rebound", func(t *testing.T) {
		y := array.NewVar("y", array.Vector[float32](1, 2))
		require.NoError(t, Update(y, 2, array.Vector[float64](1, 1)))
		assert.Equal(t, array.Float64, y.Value().Kind())
		assert.Equal(t, []float64{3, 4}, y.Value().Float64s())
	})

	t.Run("shape mismatch leaves y untouched", func(t *testing.T) {
		y := array.NewVar("y", array.Vector[float32](1, 2))
		before := y.Value()
		err := Update(y, 2, array.Vector[float64](1, 1, 1))
		require.ErrorIs(t, err, ErrShapeMismatch)
		assert.Same(t, before, y.Value())
		assert.Equal(t, []float32{1, 2}, before.Float32s())
	})

	t.Run("complex x", func(t *testing.T) {
		y := array.Vector[float64](1)
		err := Update(y, 1, array.Vector(1i))
		require.ErrorIs(t, err, ErrNotRealValued)
		assert.Equal(t, []float64{1}, y.Float64s())
	})
}

func TestCombine(t *testing.T) {
	x := array.Vector[float64](1, 2, 3)
	y := array.Vector[float64](10, 20, 30)

	t.Run("sum", func(t *testing.T) {
		out, err := Combine(nil, 1, x, 1, y)
		require.NoError(t, err)
		assert.Equal(t, []float64{11, 22, 33}, out.Float64s())
	})

	t.Run("general", func(t *testing.T) {
		out, err := Combine(nil, 2, x, 3, y)
		require.NoError(t, err)
		assert.Equal(t, []float64{32, 64, 96}, out.Float64s())
	})

	t.Run("zero alpha equals scale bit for bit", func(t *testing.T) {
		nx := array.Vector(math.NaN(), 1, 2)
		ny := array.Vector(math.Copysign(0, -1), math.Inf(-1), 3)
		got, err := Combine(nil, 0, nx, 5, ny)
		require.NoError(t, err)
		want, err := Scale(ny, 5)
		require.NoError(t, err)
		for i := range want.Float64s() {
			assert.Equal(t, math.Float64bits(want.Float64s()[i]), math.Float64bits(got.Float64s()[i]), "index %d", i)
		}
	})

	t.Run("destination reused", func(t *testing.T) {
		dst := array.Vector[float64](0, 0, 0)
		out, err := Combine(dst, 1, x, -1, y)
		require.NoError(t, err)
		assert.Same(t, dst, out)
		assert.Equal(t, []float64{-9, -18, -27}, dst.Float64s())
	})

	t.Run("destination aliases x", func(t *testing.T) {
		xs := array.Vector[float64](1, 2, 3)
		out, err := Combine(xs, 2, xs, 1, y)
		require.NoError(t, err)
		assert.Same(t, xs, out)
		assert.Equal(t, []float64{12, 24, 36}, xs.Float64s())
	})

	t.Run("temporary destination of wrong kind is left alone", func(t *testing.T) {
		dst := array.Vector[float32](7, 7, 7)
		out, err := Combine(dst, 1, x, 1, y)
		require.NoError(t, err)
		assert.NotSame(t, dst, out)
		assert.Equal(t, []float32{7, 7, 7}, dst.Float32s())
		assert.Equal(t, array.Float64, out.Kind())
	})

	t.Run("variable destination is rebound", func(t *testing.T) {
		dst := array.NewVar("d", array.Vector[float64](0))
		out, err := Combine(dst, 1, x, 1, y)
		require.NoError(t, err)
		assert.Same(t, out, dst.Value())
		assert.Equal(t, []float64{11, 22, 33}, out.Float64s())
	})

	t.Run("single precision", func(t *testing.T) {
		out, err := Combine(nil, 1, array.Vector[float32](1, 2), 1, array.Vector[float32](3, 4))
		require.NoError(t, err)
		assert.Equal(t, array.Float32, out.Kind())
		assert.Equal(t, []float32{4, 6}, out.Float32s())
	})

	t.Run("shape mismatch leaves destination untouched", func(t *testing.T) {
		dst := array.NewVar("d", array.Vector[float64](5, 5, 5))
		before := dst.Value()
		_, err := Combine(dst, 1, x, 1, array.Vector[float64](1, 2))
		require.ErrorIs(t, err, ErrShapeMismatch)
		assert.Same(t, before, dst.Value())
		assert.Equal(t, []float64{5, 5, 5}, before.Float64s())
	})

	t.Run("not real", func(t *testing.T) {
		_, err := Combine(nil, 1, array.Vector(1i, 2i, 3i), 1, y)
		require.ErrorIs(t, err, ErrNotRealValued)
	})
}
