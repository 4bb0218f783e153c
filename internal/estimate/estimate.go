package estimate

import (
	"param-transform/internal/addressable"
)

// Estimate is a single estimated cell.
type Estimate struct {
	label     string
	parameter string
	source    string

	lower, upper float64
	prior        Prior
	handle       *addressable.Handle

	estimated   bool
	inObjective bool
	jacobian    *bool
}

// Label returns the estimate label; element estimates carry a "{key}" suffix.
func (e *Estimate) Label() string { return e.label }

// Parameter returns the canonical absolute path of the estimated cell.
func (e *Estimate) Parameter() string { return e.parameter }

// Source returns "file:line" of the defining block, if known.
func (e *Estimate) Source() string { return e.source }

func (e *Estimate) LowerBound() float64 { return e.lower }
func (e *Estimate) UpperBound() float64 { return e.upper }

// Value reads the cell.
func (e *Estimate) Value() float64 {
	return e.handle.Value(0)
}

// SetValue writes the cell.
func (e *Estimate) SetValue(v float64) {
	e.handle.Set(0, v)
}

// Estimated reports whether the minimizer moves this estimate.
func (e *Estimate) Estimated() bool { return e.estimated }

func (e *Estimate) SetEstimated(v bool) { e.estimated = v }

// InObjectiveFunction reports whether the prior is added to the objective.
func (e *Estimate) InObjectiveFunction() bool { return e.inObjective }

func (e *Estimate) SetInObjectiveFunction(v bool) { e.inObjective = v }

// TransformWithJacobian returns the block's transform_with_jacobian flag and
// whether it was given at all.
func (e *Estimate) TransformWithJacobian() (value, defined bool) {
	if e.jacobian == nil {
		return false, false
	}

	return *e.jacobian, true
}

// Score returns the prior's negative log-likelihood at the current value.
func (e *Estimate) Score() float64 {
	return e.prior.Score(e.Value())
}

// InBounds reports whether the current value lies within [lower, upper].
func (e *Estimate) InBounds() bool {
	v := e.Value()
	return e.lower <= v && v <= e.upper
}
