package kernel

// Combine stores alpha*x + beta*y into dst. dst may alias x, y or neither;
// every element of dst depends only on the same index of x and y.
//
// The operands are first ordered so that the cheaper coefficient comes
// first, then the cheapest exact arithmetic form is chosen. Skipping a term
// is not the same as multiplying it by zero under IEEE rules (signed zeros,
// NaN, Inf), so the order of the cases below is observable.
func Combine[T Float](dst []T, alpha T, x []T, beta T, y []T) {
	if alpha != beta && cost(beta, alpha) < cost(alpha, beta) {
		alpha, x, beta, y = beta, y, alpha, x
	}

	x = x[:len(dst)]
	y = y[:len(dst)]

	switch alpha {
	case 0:
		Scale(dst, beta, y)
	case 1:
		switch beta {
		case 1:
			for i := range dst {
				dst[i] = x[i] + y[i]
			}
		case -1:
			for i := range dst {
				dst[i] = x[i] - y[i]
			}
		default:
			for i := range dst {
				dst[i] = x[i] + beta*y[i]
			}
		}
	case -1:
		switch beta {
		case -1:
			for i := range dst {
				dst[i] = -x[i] - y[i]
			}
		case 1:
			for i := range dst {
				dst[i] = y[i] - x[i]
			}
		default:
			for i := range dst {
				dst[i] = beta*y[i] - x[i]
			}
		}
	default:
		for i := range dst {
			dst[i] = alpha*x[i] + beta*y[i]
		}
	}
}

// cost ranks a coefficient: 0 drops the term, ±1 (next to a non-zero
// partner) avoids a multiply, anything else needs one.
func cost[T Float](c, other T) int {
	switch {
	case c == 0:
		return 0
	case (c == 1 || c == -1) && other != 0:
		return 1
	default:
		return 2
	}
}
