package estimate

import (
	"fmt"
	"log/slog"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
)

// Definition is an @estimate block as read from the model file.
type Definition struct {
	Label      string
	Type       string
	Parameter  string
	LowerBound []float64
	UpperBound []float64
	Mu         []float64
	CV         []float64

	// TransformWithJacobian is nil when the block does not set it.
	TransformWithJacobian *bool
	Source                string
}

func (d *Definition) block() string {
	return "estimate[" + d.Label + "]"
}

// Manager owns every estimate of a run, keyed by canonical parameter path.
type Manager struct {
	estimates []*Estimate
	byParam   map[string]*Estimate
	logger    *slog.Logger
}

// NewManager creates an empty manager. A nil logger uses slog.Default().
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{byParam: make(map[string]*Estimate), logger: logger}
}

// Create expands def into one Estimate per addressed cell, records
// UsageEstimate on each cell and adds them to the manager.
func (m *Manager) Create(def Definition, resolver *addressable.Resolver) ([]*Estimate, error) {
	h, err := resolver.Resolve(def.Parameter, addressable.UsageEstimate)
	if err != nil {
		return nil, m.configErr(def, "parameter", "%w", err)
	}

	n := h.Len()

	if len(def.LowerBound) != n || len(def.UpperBound) != n {
		return nil, m.configErr(def, "lower_bound",
			"%s addresses %d values; expected %d lower and upper bounds, got %d and %d",
			def.Parameter, n, n, len(def.LowerBound), len(def.UpperBound))
	}

	mu, err := broadcast(def.Mu, n)
	if err != nil {
		return nil, m.configErr(def, "mu", "%w", err)
	}

	cv, err := broadcast(def.CV, n)
	if err != nil {
		return nil, m.configErr(def, "cv", "%w", err)
	}

	base := h.Path()
	keys := h.Keys()
	created := make([]*Estimate, 0, n)

	for i := range n {
		label := def.Label
		param := base.String()

		if h.Shape().IsContainer() {
			label = def.Label + "{" + keys[i] + "}"
			param = base.WithIndex(keys[i]).String()
		}

		if _, dup := m.byParam[param]; dup {
			return nil, m.configErr(def, "parameter", "%s is already the target of another @estimate block", param)
		}

		if def.LowerBound[i] > def.UpperBound[i] {
			return nil, m.configErr(def, "lower_bound", "lower bound %g is greater than upper bound %g for %s",
				def.LowerBound[i], def.UpperBound[i], param)
		}

		cell, err := resolver.Resolve(param, addressable.UsageEstimate)
		if err != nil {
			return nil, diagnostic.Codef("element %s of %s did not resolve: %v", param, def.Parameter, err)
		}

		prior, err := NewPrior(def.Type, mu[i], cv[i])
		if err != nil {
			return nil, m.configErr(def, "type", "%w", err)
		}

		e := &Estimate{
			label:       label,
			parameter:   param,
			source:      def.Source,
			lower:       def.LowerBound[i],
			upper:       def.UpperBound[i],
			prior:       prior,
			handle:      cell,
			estimated:   true,
			inObjective: true,
			jacobian:    def.TransformWithJacobian,
		}

		created = append(created, e)
	}

	for _, e := range created {
		resolver.RecordUsage(e.parameter, addressable.UsageEstimate)
		m.estimates = append(m.estimates, e)
		m.byParam[e.parameter] = e
		m.logger.Debug("estimate created", "label", e.label, "parameter", e.parameter,
			"lower", e.lower, "upper", e.upper)
	}

	return created, nil
}

func (m *Manager) configErr(def Definition, param, format string, args ...any) error {
	err := diagnostic.Configf(def.block(), param, format, args...)
	err.Source = def.Source

	return err
}

// CheckBounds returns a ConfigError for every estimate whose current value lies
// outside its bounds.
func (m *Manager) CheckBounds() []error {
	var errs []error

	for _, e := range m.estimates {
		if e.estimated && !e.InBounds() {
			err := diagnostic.Configf("estimate["+e.label+"]", "lower_bound",
				"value %g of %s is outside the bounds [%g, %g]", e.Value(), e.parameter, e.lower, e.upper)
			err.Source = e.source
			errs = append(errs, err)
		}
	}

	return errs
}

// ByParameter returns the estimate targeting path (canonicalised).
func (m *Manager) ByParameter(path string) (*Estimate, bool) {
	e, ok := m.byParam[addressable.Canonical(path)]
	return e, ok
}

// ByLabel returns the estimate with the given label.
func (m *Manager) ByLabel(label string) (*Estimate, bool) {
	for _, e := range m.estimates {
		if e.label == label {
			return e, true
		}
	}

	return nil, false
}

// All returns every estimate in creation order.
func (m *Manager) All() []*Estimate {
	return append([]*Estimate(nil), m.estimates...)
}

// Targets returns the canonical parameter paths of every estimate.
func (m *Manager) Targets() []string {
	out := make([]string, len(m.estimates))
	for i, e := range m.estimates {
		out[i] = e.parameter
	}

	return out
}

// Estimated returns only the estimates the minimizer moves.
func (m *Manager) Estimated() []*Estimate {
	var out []*Estimate

	for _, e := range m.estimates {
		if e.estimated {
			out = append(out, e)
		}
	}

	return out
}

// Score sums the priors of every estimate that contributes to the objective.
func (m *Manager) Score() float64 {
	var total float64

	for _, e := range m.estimates {
		if e.inObjective {
			total += e.Score()
		}
	}

	return total
}

func broadcast(values []float64, n int) ([]float64, error) {
	switch len(values) {
	case 0:
		return make([]float64, n), nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = values[0]
		}

		return out, nil
	case n:
		return values, nil
	default:
		return nil, fmt.Errorf("expected 1 or %d values, got %d", n, len(values))
	}
}
