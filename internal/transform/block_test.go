package transform

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
)

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := New(Config{Label: "x", Type: "cubic", Parameters: []string{sel("q")}, Source: "model.yaml:12"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.yaml:12: parameter_transformation[x]: type")
	assert.Contains(t, err.Error(), "average_difference")

	_, err = New(Config{Type: "log"}, env)
	assert.ErrorContains(t, err, "label is required")

	_, err = New(Config{Label: "x", Type: "log"}, nil)
	assert.True(t, diagnostic.IsCodeError(err))
}

func TestKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"average_difference", "difference", "inverse", "log", "log_sum",
		"logistic", "orthogonal", "simplex", "sqrt", "sum_to_one",
	}, Kinds())
	assert.True(t, HasKind("Square_Root"))
	assert.True(t, HasKind("logit"))
	assert.False(t, HasKind("exp"))
}

func TestBlock_Lifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{Label: "q_log", Type: "log", Parameters: []string{"Selectivity[Sel].Q"}})
	assert.Equal(t, StateCreated, b.State())
	assert.Equal(t, "Created", b.State().String())

	err := b.Restore()
	require.Error(t, err)
	assert.True(t, diagnostic.IsCodeError(err))

	require.NoError(t, b.Validate())
	assert.Equal(t, []string{sel("q")}, b.ParameterLabels())
	assert.True(t, env.resolver.UsedFor(sel("q"), addressable.UsageTransformation))

	assert.True(t, diagnostic.IsCodeError(b.Validate()))
	assert.True(t, diagnostic.IsCodeError(b.Verify()))

	require.NoError(t, b.Build())
	assert.Equal(t, StateBuilt, b.State())
	require.NoError(t, b.Verify())

	require.NoError(t, b.Reset())
	assert.Equal(t, StateActive, b.State())
	require.NoError(t, b.Restore())
	assert.Equal(t, StateActive, b.State())
}

func TestBlock_Arity(t *testing.T) {
	t.Parallel()

	three := []string{sel("a50"), sel("ato95"), sel("q")}
	two := []string{sel("r0"), sel("q")}

	tests := []struct {
		name   string
		kind   string
		params []string
		want   string
	}{
		{"difference with three", "difference", three, "exactly 2"},
		{"sum to one with three", "sum_to_one", three, "exactly 2"},
		{"orthogonal with three", "orthogonal", three, "exactly 2"},
		{"average difference with three", "average_difference", three, "exactly 2"},
		{"log sum with three", "log_sum", three, "exactly 2"},
		{"difference over a whole vector", "difference", []string{sel("w")}, "got 3"},
		{"log with two", "log", two, "exactly 1"},
		{"inverse with two", "inverse", two, "exactly 1"},
		{"sqrt with two", "sqrt", two, "exactly 1"},
		{"logistic with two", "logistic", two, "exactly 1"},
		{"simplex with one", "simplex", []string{sel("p1")}, "at least 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			b := env.block(t, Config{
				Label: "t", Type: tt.kind, Parameters: tt.params,
				LowerBound: ptr(0.0), UpperBound: ptr(2000.0),
			})

			err := b.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "parameter_transformation[t]: parameters")
		})
	}
}

func TestBlock_ShapeExclusivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []string
		want   string
	}{
		{"vector and scalar", []string{sel("v{1}"), sel("q")}, "must share one shape"},
		{"scalar and vector", []string{sel("q"), sel("v")}, "must share one shape"},
		{"map and vector", []string{sel("years{1990}"), sel("w{1}")}, "must share one shape"},
		{"different index counts", []string{sel("w{1}"), sel("w{2,3}")}, "index counts must match"},
		{"two whole containers", []string{sel("v"), sel("w")}, "exactly one element"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			b := env.block(t, Config{Label: "t", Type: "simplex", Parameters: tt.params, SumToOne: ptr(false)})
			assert.ErrorContains(t, b.Validate(), tt.want)
		})
	}
}

func TestBlock_ResolutionErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{Label: "t", Type: "difference", Parameters: []string{sel("a5"), "process[Nope].r0", sel("q")}})

	err := b.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, addressable.ErrAddressableNotFound)
	require.ErrorIs(t, err, addressable.ErrObjectNotFound)
	assert.Contains(t, err.Error(), "did you mean a50")
	assert.Len(t, diagnostic.Flatten(err), 2)

	env = newTestEnv(t)
	b = env.block(t, Config{Label: "t", Type: "difference", Parameters: []string{sel("q"), "Selectivity[Sel].q"}})
	assert.ErrorContains(t, b.Validate(), "bound more than once")

	env = newTestEnv(t)
	b = env.block(t, Config{Label: "t", Type: "log", Parameters: []string{sel("w{4}")}})
	assert.ErrorIs(t, b.Validate(), addressable.ErrIndexOutOfRange)

	// one cell cannot fill both values of a two-value kind
	env = newTestEnv(t)
	b = env.block(t, Config{Label: "t", Type: "difference", Parameters: []string{sel("v{1,1}")}})
	err = b.Validate()
	require.ErrorIs(t, err, addressable.ErrInvalidIndex)
	assert.Contains(t, err.Error(), "selected more than once")
	assert.Equal(t, StateCreated, b.State())
	assert.Equal(t, []float64{.2, .3, .5}, env.sel.v)
}

func TestBlock_UsageExclusivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     string
		estimate string
		profile  string
		params   []string
		want     string
	}{
		{name: "estimated scalar", kind: "log", estimate: sel("r0"), params: []string{sel("r0")}, want: "@estimate"},
		{name: "estimated element", kind: "simplex", estimate: sel("v{2}"), params: []string{sel("v")}, want: "@estimate"},
		{name: "estimated element of subset", kind: "simplex", estimate: sel("w{3}"), params: []string{sel("w{1,3}")}, want: "@estimate"},
		{name: "profiled", kind: "log", profile: sel("q"), params: []string{sel("q")}, want: "@profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if tt.estimate != "" {
				env.addEstimate(tt.estimate, nil)
			}

			if tt.profile != "" {
				env.profiles = []string{tt.profile}
			}

			b := env.block(t, Config{Label: "t", Type: tt.kind, Parameters: tt.params, SumToOne: ptr(false)})
			require.NoError(t, b.Validate())
			require.NoError(t, b.Build())
			assert.ErrorContains(t, b.Verify(), tt.want)
		})
	}

	env := newTestEnv(t)
	env.addEstimate(sel("w{2}"), nil)
	b := env.block(t, Config{Label: "t", Type: "difference", Parameters: []string{sel("w{1,3}")}})
	require.NoError(t, b.Validate())
	require.NoError(t, b.Build())
	assert.NoError(t, b.Verify())
}

func TestBlock_BuildRules(t *testing.T) {
	t.Parallel()

	t.Run("no jacobian", func(t *testing.T) {
		t.Parallel()

		for _, kind := range []string{"average_difference", "sum_to_one", "log_sum", "orthogonal"} {
			env := newTestEnv(t)
			b := env.block(t, Config{
				Label: "t", Type: kind, Parameters: []string{sel("p1"), sel("p2")},
				PriorAppliesToRestoredParameters: true,
			})
			require.NoError(t, b.Validate(), kind)
			assert.ErrorContains(t, b.Build(), "no Jacobian calculated", kind)
			assert.False(t, b.HasJacobian())
		}
	})

	t.Run("difference has a unit jacobian", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		b := env.block(t, Config{
			Label: "t", Type: "difference", Parameters: []string{sel("a50"), sel("ato95")},
			PriorAppliesToRestoredParameters: true,
		})
		require.NoError(t, b.Validate())
		require.NoError(t, b.Build())
		require.NoError(t, b.Restore())
		assert.Zero(t, b.Score())
	})

	t.Run("jacobian flag mismatch", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addEstimate("parameter_transformation[t].log_parameter", ptr(false))

		b := env.block(t, Config{
			Label: "t", Type: "log", Parameters: []string{sel("r0")},
			PriorAppliesToRestoredParameters: true,
		})
		require.NoError(t, b.Validate())
		assert.ErrorContains(t, b.Build(), "transform_with_jacobian false")
	})

	t.Run("matching flag", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addEstimate("parameter_transformation[t].log_parameter", ptr(true))

		b := env.block(t, Config{
			Label: "t", Type: "log", Parameters: []string{sel("r0")},
			PriorAppliesToRestoredParameters: true,
		})
		require.NoError(t, b.Validate())
		require.NoError(t, b.Build())
		assert.Empty(t, b.Warnings())
	})

	t.Run("unpaired block warns", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		b := env.block(t, Config{Label: "t", Type: "log", Parameters: []string{sel("r0")}})
		require.NoError(t, b.Validate())
		require.NoError(t, b.Build())
		require.Len(t, b.Warnings(), 1)
		assert.Contains(t, b.Warnings()[0], "no @estimate block")
	})

	t.Run("simplex last value is scored but not estimated", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first := env.addEstimate("parameter_transformation[s].simplex{1}", nil)
		last := env.addEstimate("parameter_transformation[s].simplex{3}", nil)

		b := env.block(t, Config{
			Label: "s", Type: "simplex", Parameters: []string{sel("v")},
			PriorAppliesToRestoredParameters: true,
		})
		require.NoError(t, b.Validate())
		require.NoError(t, b.Build())

		assert.True(t, first.estimated)
		assert.False(t, last.estimated)
		assert.True(t, last.inObjective)
	})
}

func TestBlock_ObjectiveToggle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{
		Label: "t", Type: "log", Parameters: []string{sel("r0")},
		PriorAppliesToRestoredParameters: true,
	})
	require.NoError(t, b.Validate())
	require.NoError(t, b.Build())
	require.NoError(t, b.Restore())

	b.PrepareForObjectiveFunction()
	assert.InDelta(t, 1000, env.own(t, b, "log_parameter")[0], 1e-9)
	assert.True(t, diagnostic.IsCodeError(b.Restore()))

	// repeated prepare keeps the cached transformed value
	b.PrepareForObjectiveFunction()
	b.RestoreForObjectiveFunction()
	assert.InDelta(t, math.Log(1000), env.own(t, b, "log_parameter")[0], 1e-12)

	b.RestoreForObjectiveFunction()
	assert.InDelta(t, math.Log(1000), env.own(t, b, "log_parameter")[0], 1e-12)
}

func TestBlock_ObjectiveToggleIsNoOpWithoutPrior(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{Label: "t", Type: "log", Parameters: []string{sel("r0")}})
	require.NoError(t, b.Validate())

	b.PrepareForObjectiveFunction()
	assert.InDelta(t, math.Log(1000), env.own(t, b, "log_parameter")[0], 1e-12)
	b.RestoreForObjectiveFunction()
}

func TestBlock_FillReportCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{
		Label: "a50_logit", Type: "logistic", Parameters: []string{sel("a50")},
		LowerBound: ptr(1.0), UpperBound: ptr(11.0), PriorAppliesToRestoredParameters: true,
	})
	require.NoError(t, b.Validate())
	require.NoError(t, b.Restore())
	b.Score()

	var buf bytes.Buffer
	require.NoError(t, b.FillReportCache(&buf))

	out := buf.String()
	assert.Contains(t, out, "type: logistic\n")
	assert.Contains(t, out, "parameters: selectivity[Sel].a50\n")
	assert.Contains(t, out, "parameter_values: 6\n")
	assert.Contains(t, out, "logistic_parameter: 0\n")
	assert.Contains(t, out, "lower_bound: 1\n")
	assert.Contains(t, out, "upper_bound: 11\n")
	assert.Contains(t, out, "negative_log_jacobian: "+formatFloat(-math.Log(2.5))+"\n")
}

func TestBlock_FillTabularReportCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.block(t, Config{Label: "s", Type: "simplex", Parameters: []string{sel("v")}})
	require.NoError(t, b.Validate())
	require.NoError(t, b.Restore())

	var buf bytes.Buffer
	require.NoError(t, b.FillTabularReportCache(&buf, true))
	require.NoError(t, b.FillTabularReportCache(&buf, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join([]string{
		"parameter_transformation[s].simplex{1}",
		"parameter_transformation[s].simplex{2}",
		"parameter_transformation[s].total",
		"selectivity[Sel].v{1}",
		"selectivity[Sel].v{2}",
		"selectivity[Sel].v{3}",
		"parameter_transformation[s].negative_log_jacobian",
	}, " "), lines[0])
	assert.Equal(t, lines[1], lines[2])
	assert.Len(t, strings.Fields(lines[1]), len(strings.Fields(lines[0])))
}
