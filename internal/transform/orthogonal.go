package transform

import (
	"math"

	"param-transform/internal/addressable"
)

// orthogonalTransform estimates the product and quotient of two positive
// parameters, which are close to uncorrelated for many catchability pairs.
type orthogonalTransform struct {
	product, quotient float64
}

func (t *orthogonalTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("product_parameter", &t.product, ownUsages...)
	c.RegisterScalar("quotient_parameter", &t.quotient, ownUsages...)
}

func (t *orthogonalTransform) arity() arity { return exactly(2) }

func (t *orthogonalTransform) forward(b *Block, x []float64) error {
	for i, v := range x {
		if v <= 0 {
			return b.configErr("parameters", "%s is %g; an orthogonal transformation needs positive values", b.valueLabel(i), v)
		}
	}

	t.product = x[0] * x[1]
	t.quotient = x[0] / x[1]

	return nil
}

func (t *orthogonalTransform) inverse(*Block) []float64 {
	return []float64{math.Sqrt(t.product * t.quotient), math.Sqrt(t.product / t.quotient)}
}
