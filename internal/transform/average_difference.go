package transform

import "param-transform/internal/addressable"

// averageDifferenceTransform estimates the midpoint of two parameters and
// twice the distance from the midpoint to the second.
type averageDifferenceTransform struct {
	average, difference float64
}

func (t *averageDifferenceTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("average_parameter", &t.average, ownUsages...)
	c.RegisterScalar("difference_parameter", &t.difference, ownUsages...)
}

func (t *averageDifferenceTransform) arity() arity { return exactly(2) }

func (t *averageDifferenceTransform) forward(_ *Block, x []float64) error {
	t.average = (x[0] + x[1]) / 2
	t.difference = (t.average - x[1]) * 2

	return nil
}

func (t *averageDifferenceTransform) inverse(*Block) []float64 {
	half := t.difference / 2
	return []float64{t.average + half, t.average - half}
}
