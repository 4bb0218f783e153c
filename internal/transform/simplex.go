package transform

import (
	"math"
	"strconv"

	"param-transform/internal/addressable"
	"param-transform/internal/common"
)

const simplexTolerance = 1e-4

// simplexTransform maps n positive values onto n-1 reals by logistic stick
// breaking. Without sum_to_one the sum of the initial values is kept as a
// fixed scale.
type simplexTransform struct {
	sumToOne     bool
	priorApplies bool

	n     int
	y     []float64
	logk  []float64
	total float64

	// from the most recent inverse, used by the Jacobian
	z, stick []float64
}

func newSimplex(cfg *Config) algorithm {
	t := &simplexTransform{sumToOne: true, priorApplies: cfg.PriorAppliesToRestoredParameters}
	if cfg.SumToOne != nil {
		t.sumToOne = *cfg.SumToOne
	}

	return t
}

func (t *simplexTransform) register(c *addressable.Catalog) {
	c.RegisterVector("simplex", &t.y, ownUsages...)
	c.RegisterScalar("total", &t.total, addressable.UsageLookup)
}

func (t *simplexTransform) arity() arity { return arity{min: 2} }

func (t *simplexTransform) forward(b *Block, x []float64) error {
	for i, v := range x {
		if v <= 0 {
			return b.configErr("parameters", "%s is %g; simplex values must be positive", b.valueLabel(i), v)
		}
	}

	total := common.Sum(x)
	if t.sumToOne && math.Abs(total-1) > simplexTolerance {
		return b.configErr("sum_to_one", "parameters sum to %g; they must sum to 1 when sum_to_one is true", total)
	}

	n := len(x)
	t.n = n
	t.total = total

	if t.sumToOne {
		t.total = 1
	}

	t.logk = make([]float64, n-1)
	for k := range t.logk {
		t.logk[k] = math.Log(1 / float64(n-1-k))
	}

	// the extra cell carries the prior of the last natural value
	size := n - 1
	if t.priorApplies {
		size = n
	}

	t.y = make([]float64, size)
	t.z = make([]float64, n-1)
	t.stick = make([]float64, n-1)

	var sub float64

	for k := range n - 1 {
		u := x[k] / total
		z := u / (1 - sub)
		t.y[k] = math.Log(z/(1-z)) - t.logk[k]
		sub += u
	}

	return nil
}

func (t *simplexTransform) inverse(*Block) []float64 {
	out := make([]float64, t.n)

	var sub float64

	for k := range t.n - 1 {
		z := sigmoid(t.y[k] + t.logk[k])
		stick := 1 - sub
		t.z[k], t.stick[k] = z, stick
		out[k] = stick * z
		sub += out[k]
	}

	out[t.n-1] = 1 - sub

	for i := range out {
		out[i] *= t.total
	}

	return out
}

// The map is triangular: du_k/dy_k = stick_k z_k (1-z_k), times the scale.
func (t *simplexTransform) negLogJacobian(*Block) float64 {
	var j float64

	for k := range t.n - 1 {
		j -= math.Log(t.z[k] * (1 - t.z[k]) * t.stick[k])
	}

	if !t.sumToOne {
		j -= float64(t.n-1) * math.Log(t.total)
	}

	return j
}

func (t *simplexTransform) objectiveCells() []*float64 {
	cells := make([]*float64, len(t.y))
	for i := range t.y {
		cells[i] = &t.y[i]
	}

	return cells
}

// build marks the estimate on the extra last cell as scored but not moved.
func (t *simplexTransform) build(b *Block) error {
	if !t.priorApplies {
		return nil
	}

	path := addressable.Join(ObjectType, b.cfg.Label, "simplex", strconv.Itoa(len(t.y)))

	e, ok := b.env.EstimateFor(path)
	if !ok {
		b.warn("no @estimate block targets %s; the prior of the last simplex value is not applied", path)
		return nil
	}

	e.SetEstimated(false)
	e.SetInObjectiveFunction(true)
	b.logger.Debug("last simplex value is scored but not estimated", "estimate", e.Label())

	return nil
}
