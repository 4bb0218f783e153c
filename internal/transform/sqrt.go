package transform

import (
	"math"

	"param-transform/internal/addressable"
)

type sqrtTransform struct {
	value float64
}

func (t *sqrtTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("sqrt_parameter", &t.value, ownUsages...)
}

func (t *sqrtTransform) arity() arity { return exactly(1) }

func (t *sqrtTransform) forward(b *Block, x []float64) error {
	if x[0] < 0 {
		return b.configErr("parameters", "%s is %g; a square root transformation needs a non-negative value", b.valueLabel(0), x[0])
	}

	t.value = math.Sqrt(x[0])

	return nil
}

func (t *sqrtTransform) inverse(*Block) []float64 {
	return []float64{t.value * t.value}
}

// dx/dy = 2y = 2 sqrt(x)
func (t *sqrtTransform) negLogJacobian(b *Block) float64 {
	return -math.Log(2 * math.Sqrt(b.restored[0]))
}

func (t *sqrtTransform) objectiveCells() []*float64 {
	return []*float64{&t.value}
}
