package transform

import (
	"math"

	"param-transform/internal/addressable"
)

type inverseTransform struct {
	value float64
}

func (t *inverseTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("inverse_parameter", &t.value, ownUsages...)
}

func (t *inverseTransform) arity() arity { return exactly(1) }

func (t *inverseTransform) forward(b *Block, x []float64) error {
	if x[0] == 0 {
		return b.configErr("parameters", "%s is 0; an inverse transformation needs a non-zero value", b.valueLabel(0))
	}

	t.value = 1 / x[0]

	return nil
}

func (t *inverseTransform) inverse(*Block) []float64 {
	return []float64{1 / t.value}
}

// |dx/dy| = 1/y^2 = x^2
func (t *inverseTransform) negLogJacobian(b *Block) float64 {
	return -2 * math.Log(math.Abs(b.restored[0]))
}

func (t *inverseTransform) objectiveCells() []*float64 {
	return []*float64{&t.value}
}
