package transform

import (
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"param-transform/internal/addressable"
)

// selectivity is a stand-in model object exposing every shape.
type selectivity struct {
	catalog *addressable.Catalog

	a50, ato95 float64
	q, r0      float64
	p1, p2     float64
	v, w       []float64
	years      map[uint]float64
	sex        *addressable.OrderedMap
	male       float64
	female     float64
}

func newSelectivity() *selectivity {
	s := &selectivity{
		catalog: addressable.NewCatalog(),
		a50:     6,
		ato95:   1,
		q:       0.5,
		r0:      1000,
		p1:      0.3,
		p2:      0.7,
		v:       []float64{0.2, 0.3, 0.5},
		w:       []float64{2, 3, 5},
		years:   map[uint]float64{1990: 1, 1991: 2, 1992: 3},
		sex:     addressable.NewOrderedMap(),
		male:    0.4,
		female:  0.6,
	}
	s.sex.Set("male", 0.45)
	s.sex.Set("female", 0.55)

	s.catalog.RegisterScalar("a50", &s.a50)
	s.catalog.RegisterScalar("ato95", &s.ato95)
	s.catalog.RegisterScalar("q", &s.q)
	s.catalog.RegisterScalar("r0", &s.r0)
	s.catalog.RegisterScalar("p1", &s.p1)
	s.catalog.RegisterScalar("p2", &s.p2)
	s.catalog.RegisterVector("v", &s.v)
	s.catalog.RegisterVector("w", &s.w)
	s.catalog.RegisterUnsignedMap("years", s.years)
	s.catalog.RegisterStringMap("sex", s.sex)
	s.catalog.RegisterPointers("ratio", []*float64{&s.male, &s.female})

	return s
}

func (s *selectivity) Type() string { return "selectivity" }
func (s *selectivity) Label() string { return "Sel" }
func (s *selectivity) Addressables() *addressable.Catalog { return s.catalog }

type fakeEstimate struct {
	label, parameter string
	jacobian         *bool
	estimated        bool
	inObjective      bool
}

func (e *fakeEstimate) Label() string { return e.label }
func (e *fakeEstimate) Parameter() string { return e.parameter }

func (e *fakeEstimate) TransformWithJacobian() (bool, bool) {
	if e.jacobian == nil {
		return false, false
	}

	return *e.jacobian, true
}

func (e *fakeEstimate) SetEstimated(v bool) { e.estimated = v }
func (e *fakeEstimate) SetInObjectiveFunction(v bool) { e.inObjective = v }

type testEnv struct {
	resolver  *addressable.Resolver
	sel       *selectivity
	estimates map[string]*fakeEstimate
	profiles  []string
	logger    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		resolver:  addressable.NewResolver(),
		sel:       newSelectivity(),
		estimates: make(map[string]*fakeEstimate),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	require.NoError(t, env.resolver.Register(env.sel))

	return env
}

func (e *testEnv) Resolver() *addressable.Resolver { return e.resolver }
func (e *testEnv) ProfiledParameters() []string { return e.profiles }
func (e *testEnv) Logger() *slog.Logger { return e.logger }

func (e *testEnv) EstimateFor(path string) (PairedEstimate, bool) {
	est, ok := e.estimates[addressable.Canonical(path)]
	if !ok {
		return nil, false
	}

	return est, true
}

func (e *testEnv) EstimatedParameters() []string {
	out := make([]string, 0, len(e.estimates))
	for p := range e.estimates {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}

func (e *testEnv) addEstimate(path string, jacobian *bool) *fakeEstimate {
	p := addressable.Canonical(path)
	est := &fakeEstimate{label: p, parameter: p, jacobian: jacobian, estimated: true, inObjective: true}
	e.estimates[p] = est

	return est
}

// block creates a block and registers it so its own cells can be targeted.
func (e *testEnv) block(t *testing.T, cfg Config) *Block {
	t.Helper()

	b, err := New(cfg, e)
	require.NoError(t, err)
	require.NoError(t, e.resolver.Register(b))

	return b
}

func (e *testEnv) handle(t *testing.T, path string) *addressable.Handle {
	t.Helper()

	h, err := e.resolver.Resolve(path, addressable.UsageLookup)
	require.NoError(t, err)

	return h
}

// setOwn writes the block's own addressable, the way an input file would.
func (e *testEnv) setOwn(t *testing.T, b *Block, name string, values ...float64) {
	t.Helper()
	require.NoError(t, e.handle(t, addressable.Join(ObjectType, b.Label(), name)).Write(values))
}

func (e *testEnv) own(t *testing.T, b *Block, name string) []float64 {
	t.Helper()
	return e.handle(t, addressable.Join(ObjectType, b.Label(), name)).Values()
}

// bound reads every value bound to the block, in binding order.
func (e *testEnv) bound(t *testing.T, b *Block) []float64 {
	t.Helper()

	var out []float64
	for _, label := range b.ParameterLabels() {
		out = append(out, e.handle(t, label).Values()...)
	}

	return out
}

func (e *testEnv) clobber(t *testing.T, b *Block) {
	t.Helper()

	for _, label := range b.ParameterLabels() {
		h := e.handle(t, label)
		require.NoError(t, h.Write(make([]float64, h.Len())))
	}
}

func sel(param string) string {
	return "selectivity[Sel]." + param
}

func ptr[T any](v T) *T {
	return &v
}
