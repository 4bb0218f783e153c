package transform

import (
	"math"

	"param-transform/internal/addressable"
)

// logSumTransform estimates the log of a total and the first share of it.
type logSumTransform struct {
	logTotal, proportion float64
}

func (t *logSumTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("log_total_parameter", &t.logTotal, ownUsages...)
	c.RegisterScalar("proportion_parameter", &t.proportion, ownUsages...)
}

func (t *logSumTransform) arity() arity { return exactly(2) }

func (t *logSumTransform) forward(b *Block, x []float64) error {
	total := x[0] + x[1]
	if total <= 0 {
		return b.configErr("parameters", "parameters sum to %g; a log_sum transformation needs a positive total", total)
	}

	t.logTotal = math.Log(total)
	t.proportion = x[0] / total

	return nil
}

func (t *logSumTransform) inverse(*Block) []float64 {
	total := math.Exp(t.logTotal)
	return []float64{total * t.proportion, total * (1 - t.proportion)}
}
