package domain

// Point is one (x, y) anchor of a scoring curve.
type Point struct {
	X float64
	Y float64
}

// Curve is a piecewise-linear scoring curve. Anchors must be strictly
// increasing in X.
type Curve []Point

// Eval linearly interpolates y at x, clamping to the first and last anchor
// outside the anchor range.
func (c Curve) Eval(x float64) float64 {
	if len(c) == 0 {
		return 0
	}
	first, last := c[0], c[len(c)-1]
	if x <= first.X {
		return first.Y
	}
	if x >= last.X {
		return last.Y
	}

	for i := 0; i < len(c)-1; i++ {
		p0, p1 := c[i], c[i+1]
		if x >= p0.X && x <= p1.X {
			t := (x - p0.X) / (p1.X - p0.X)
			return p0.Y + t*(p1.Y-p0.Y)
		}
	}
	return last.Y
}
