package correlation

import "math"

// Pearson returns the sample correlation coefficient of xs and ys.
// ok is false when the coefficient is undefined: fewer than two pairs,
// mismatched lengths, or zero variance in either sequence.
func Pearson(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n < 2 || n != len(ys) || constant(xs) || constant(ys) {
		return 0, false
	}

	var meanX, meanY float64
	for i := range n {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	// The (n-1) factors of sample covariance and variances cancel.
	var sxy, sxx, syy float64
	for i := range n {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}

	r = sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

// constant reports whether every value equals the first.
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
