package estimate

import (
	"fmt"
	"math"
	"strings"
)

// Prior returns the negative log-likelihood of a value.
type Prior interface {
	Score(value float64) float64
}

// Uniform contributes nothing to the objective.
type Uniform struct{}

func (Uniform) Score(float64) float64 { return 0 }

// UniformLog is uniform on log(x).
type UniformLog struct{}

func (UniformLog) Score(value float64) float64 { return math.Log(value) }

// Normal is parameterised by its mean and coefficient of variation.
type Normal struct {
	Mu, CV float64
}

func (n Normal) Score(value float64) float64 {
	z := (value - n.Mu) / (n.CV * n.Mu)
	return 0.5 * z * z
}

// Lognormal is parameterised by its mean and coefficient of variation on the
// natural scale.
type Lognormal struct {
	Mu, CV float64
}

func (l Lognormal) Score(value float64) float64 {
	sigma := math.Sqrt(math.Log(1 + l.CV*l.CV))
	z := math.Log(value/l.Mu)/sigma + sigma/2

	return math.Log(value) + math.Log(sigma) + 0.5*z*z
}

// Prior type names.
const (
	PriorUniform    = "uniform"
	PriorUniformLog = "uniform_log"
	PriorNormal     = "normal"
	PriorLognormal  = "lognormal"
)

// NewPrior builds the prior named kind. Normal and lognormal need mu and cv > 0.
func NewPrior(kind string, mu, cv float64) (Prior, error) {
	switch strings.ToLower(kind) {
	case "", PriorUniform:
		return Uniform{}, nil
	case PriorUniformLog:
		return UniformLog{}, nil
	case PriorNormal, PriorLognormal:
		if mu <= 0 || cv <= 0 {
			return nil, fmt.Errorf("%s prior needs mu > 0 and cv > 0, got mu=%g cv=%g", kind, mu, cv)
		}

		if strings.ToLower(kind) == PriorNormal {
			return Normal{Mu: mu, CV: cv}, nil
		}

		return Lognormal{Mu: mu, CV: cv}, nil
	default:
		return nil, fmt.Errorf("unknown prior type %q", kind)
	}
}
