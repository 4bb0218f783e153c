package transform

import (
	"math"

	"param-transform/internal/addressable"
)

const sumToOneTolerance = 1e-4

// sumToOneTransform estimates x1 of a pair constrained to x1+x2 = 1.
type sumToOneTransform struct {
	first float64
}

func (t *sumToOneTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("first_parameter", &t.first, ownUsages...)
}

func (t *sumToOneTransform) arity() arity { return exactly(2) }

func (t *sumToOneTransform) forward(b *Block, x []float64) error {
	if total := x[0] + x[1]; math.Abs(total-1) > sumToOneTolerance {
		return b.configErr("parameters", "parameters sum to %g; a sum_to_one transformation needs them to sum to 1", total)
	}

	t.first = x[0]

	return nil
}

func (t *sumToOneTransform) inverse(*Block) []float64 {
	return []float64{t.first, 1 - t.first}
}
