package transform

import (
	"math"

	"param-transform/internal/addressable"
)

// logisticTransform maps x in (a, b) to logit((x-a)/(b-a)).
type logisticTransform struct {
	value        float64
	lower, upper float64
	bounded      bool
}

func newLogistic(cfg *Config) algorithm {
	t := &logisticTransform{}
	if cfg.LowerBound != nil && cfg.UpperBound != nil {
		t.lower, t.upper, t.bounded = *cfg.LowerBound, *cfg.UpperBound, true
	}

	return t
}

func (t *logisticTransform) register(c *addressable.Catalog) {
	c.RegisterScalar("logistic_parameter", &t.value, ownUsages...)
	c.RegisterScalar("lower_bound", &t.lower, addressable.UsageLookup)
	c.RegisterScalar("upper_bound", &t.upper, addressable.UsageLookup)
}

func (t *logisticTransform) arity() arity { return exactly(1) }

func (t *logisticTransform) forward(b *Block, x []float64) error {
	if !t.bounded {
		return b.configErr("lower_bound", "logistic transformations need both lower_bound and upper_bound")
	}

	if t.lower >= t.upper {
		return b.configErr("lower_bound", "lower bound %g must be less than upper bound %g", t.lower, t.upper)
	}

	if x[0] <= t.lower || x[0] >= t.upper {
		return b.configErr("parameters", "%s is %g; it must lie strictly inside (%g, %g)",
			b.valueLabel(0), x[0], t.lower, t.upper)
	}

	p := (x[0] - t.lower) / (t.upper - t.lower)
	t.value = math.Log(p / (1 - p))

	return nil
}

func (t *logisticTransform) inverse(*Block) []float64 {
	return []float64{t.lower + (t.upper-t.lower)*sigmoid(t.value)}
}

// dx/dy = (b-a) p (1-p)
func (t *logisticTransform) negLogJacobian(b *Block) float64 {
	width := t.upper - t.lower
	p := (b.restored[0] - t.lower) / width

	return -math.Log(width * p * (1 - p))
}

func (t *logisticTransform) objectiveCells() []*float64 {
	return []*float64{&t.value}
}

func sigmoid(y float64) float64 {
	return 1 / (1 + math.Exp(-y))
}
