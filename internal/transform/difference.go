package transform

import "param-transform/internal/addressable"

// differenceTransform estimates x1 and the gap x1-x2.
type differenceTransform struct {
	first, difference float64
}

func (t *differenceTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("first_parameter", &t.first, ownUsages...)
	c.RegisterScalar("difference_parameter", &t.difference, ownUsages...)
}

func (t *differenceTransform) arity() arity { return exactly(2) }

func (t *differenceTransform) forward(_ *Block, x []float64) error {
	t.first = x[0]
	t.difference = x[0] - x[1]

	return nil
}

func (t *differenceTransform) inverse(*Block) []float64 {
	return []float64{t.first, t.first - t.difference}
}

// The map is a shear; its Jacobian determinant is 1.
func (t *differenceTransform) negLogJacobian(*Block) float64 { return 0 }

func (t *differenceTransform) objectiveCells() []*float64 { return nil }
