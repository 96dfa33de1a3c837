package kernel

// Scale stores alpha*src into dst. dst and src may be the same slice.
//
// A zero alpha clears dst without reading src, so NaN and Inf in src do not
// leak into the result. Alpha of 1 copies (or does nothing in place) and -1
// negates; only the remaining cases multiply.
func Scale[T Float](dst []T, alpha T, src []T) {
	src = src[:len(dst)]

	switch {
	case alpha == 0:
		clear(dst)
	case alpha == 1:
		if !same(dst, src) {
			copy(dst, src)
		}
	case alpha == -1:
		for i := range dst {
			dst[i] = -src[i]
		}
	case !same(dst, src):
		for i := range dst {
			dst[i] = alpha * src[i]
		}
	default:
		for i := range dst {
			dst[i] *= alpha
		}
	}
}

// Update computes y += alpha*x in place. A zero alpha leaves y untouched
// whatever x holds.
func Update[T Float](y []T, alpha T, x []T) {
	x = x[:len(y)]

	switch {
	case alpha == 1:
		for i := range y {
			y[i] += x[i]
		}
	case alpha == -1:
		for i := range y {
			y[i] -= x[i]
		}
	case alpha != 0:
		for i := range y {
			y[i] += alpha * x[i]
		}
	}
}
