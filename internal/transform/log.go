package transform

import (
	"math"

	"param-transform/internal/addressable"
)

// logTransform estimates ln(x) in place of a positive x.
type logTransform struct {
	value float64
}

func (t *logTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("log_parameter", &t.value, ownUsages...)
}

func (t *logTransform) arity() arity { return exactly(1) }

func (t *logTransform) forward(b *Block, x []float64) error {
	if x[0] <= 0 {
		return b.configErr("parameters", "%s is %g; a log transformation needs a positive value", b.valueLabel(0), x[0])
	}

	t.value = math.Log(x[0])

	return nil
}

func (t *logTransform) inverse(*Block) []float64 {
	return []float64{math.Exp(t.value)}
}

// dx/dy = x
func (t *logTransform) negLogJacobian(b *Block) float64 {
	return -math.Log(b.restored[0])
}

func (t *logTransform) objectiveCells() []*float64 {
	return []*float64{&t.value}
}
