package transform

import (
	"sort"
	"strconv"
	"strings"

	"param-transform/internal/addressable"
)

// algorithm is the per-kind part of a Block.
type algorithm interface {
	// register adds the kind's own addressables to the block catalog.
	register(c *addressable.Catalog)
	arity() arity
	// forward checks the natural values x and sets the transformed state.
	forward(b *Block, x []float64) error
	// inverse maps the transformed state back to natural values.
	inverse(b *Block) []float64
}

// jacobian is implemented by kinds that define a Jacobian term.
type jacobian interface {
	// negLogJacobian returns -ln|dx/dy| at the most recent restore.
	negLogJacobian(b *Block) float64
	// objectiveCells returns the own cells that carry the paired priors; they
	// hold natural values while the objective is evaluated.
	objectiveCells() []*float64
}

// builder is implemented by kinds with extra Build-time rules.
type builder interface {
	build(b *Block) error
}

type factory func(cfg *Config) algorithm

var kinds = map[string]factory{
	"log":                func(*Config) algorithm { return &logTransform{} },
	"inverse":            func(*Config) algorithm { return &inverseTransform{} },
	"sqrt":               func(*Config) algorithm { return &sqrtTransform{} },
	"logistic":           newLogistic,
	"difference":         func(*Config) algorithm { return &differenceTransform{} },
	"average_difference": func(*Config) algorithm { return &averageDifferenceTransform{} },
	"sum_to_one":         func(*Config) algorithm { return &sumToOneTransform{} },
	"log_sum":            func(*Config) algorithm { return &logSumTransform{} },
	"orthogonal":         func(*Config) algorithm { return &orthogonalTransform{} },
	"simplex":            newSimplex,
}

var aliases = map[string]string{
	"square_root": "sqrt",
	"logit":       "logistic",
}

// Kinds returns the accepted transformation types, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// HasKind reports whether typ names a transformation type.
func HasKind(typ string) bool {
	_, ok := lookupKind(typ)
	return ok
}

func lookupKind(typ string) (factory, bool) {
	typ = strings.ToLower(typ)
	if alias, ok := aliases[typ]; ok {
		typ = alias
	}

	f, ok := kinds[typ]

	return f, ok
}

// arity bounds the number of values a kind binds.
type arity struct {
	min, max int // max 0 means unbounded
}

func exactly(n int) arity { return arity{min: n, max: n} }

func (a arity) accepts(n int) bool {
	return n >= a.min && (a.max == 0 || n <= a.max)
}

func (a arity) String() string {
	switch {
	case a.min == a.max:
		return "exactly " + strconv.Itoa(a.min)
	case a.max == 0:
		return "at least " + strconv.Itoa(a.min)
	default:
		return "between " + strconv.Itoa(a.min) + " and " + strconv.Itoa(a.max)
	}
}
