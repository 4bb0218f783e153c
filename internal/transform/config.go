package transform

import (
	"log/slog"

	"param-transform/internal/addressable"
)

// ObjectType is the addressable type of every transformation block.
const ObjectType = "parameter_transformation"

// Config is a @parameter_transformation block as read from the model file.
type Config struct {
	Label string
	Type  string

	// Parameters are the absolute paths bound to the block.
	Parameters []string

	PriorAppliesToRestoredParameters bool

	// LowerBound and UpperBound are required by logistic.
	LowerBound *float64
	UpperBound *float64

	// SumToOne is the simplex option; nil means true.
	SumToOne *bool

	// Source is "file:line" of the block, if known.
	Source string
}

func (c *Config) block() string {
	return ObjectType + "[" + c.Label + "]"
}

// PairedEstimate is the view a Block needs of an @estimate targeting one of
// its own addressables.
type PairedEstimate interface {
	Label() string
	Parameter() string
	TransformWithJacobian() (value, defined bool)
	SetEstimated(v bool)
	SetInObjectiveFunction(v bool)
}

// Env is the run context a Block is validated, built and verified against.
type Env interface {
	Resolver() *addressable.Resolver
	// EstimateFor returns the estimate targeting the canonical path, if any.
	EstimateFor(path string) (PairedEstimate, bool)
	// EstimatedParameters returns the canonical targets of every @estimate block.
	EstimatedParameters() []string
	// ProfiledParameters returns the canonical targets of @profile blocks when
	// the run is profiling, otherwise nil.
	ProfiledParameters() []string
	Logger() *slog.Logger
}
