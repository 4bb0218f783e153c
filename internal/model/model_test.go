package model

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
	"param-transform/internal/estimate"
	"param-transform/internal/input"
	"param-transform/internal/transform"
)

func ptr[T any](v T) *T { return &v }

func recruitment() ObjectDefinition {
	return ObjectDefinition{
		Type:    "process",
		Label:   "Recruitment",
		Scalars: []Scalar{{Name: "r0", Value: 25000}, {Name: "ssb", Value: 1}},
		Vectors: []Series{{Name: "ycs", Values: []float64{1.1, 0.9, 1.0}}},
		StringMaps: []KeyedSeries{
			{Name: "proportions", Keys: []string{"immature", "mature", "spawning"}, Values: []float64{0.2, 0.3, 0.5}},
			{Name: "sex", Keys: []string{"male", "female"}, Values: []float64{0.45, 0.55}},
		},
		LookupOnly: []string{"ssb"},
		Source:     "model.yaml:3",
	}
}

func logR0(priorApplies bool) Definition {
	return Definition{
		RunMode: RunModeEstimation,
		Objects: []ObjectDefinition{recruitment()},
		Transformations: []transform.Config{{
			Label:                            "r0_log",
			Type:                             "log",
			Parameters:                       []string{"process[Recruitment].r0"},
			PriorAppliesToRestoredParameters: priorApplies,
		}},
		Estimates: []estimate.Definition{{
			Label:                 "r0",
			Type:                  estimate.PriorUniformLog,
			Parameter:             "parameter_transformation[r0_log].log_parameter",
			LowerBound:            []float64{5},
			UpperBound:            []float64{15},
			TransformWithJacobian: ptr(priorApplies),
		}},
	}
}

func start(t *testing.T, def Definition, in InputValues) *Model {
	t.Helper()

	m, err := New(def, nil)
	require.NoError(t, err)
	require.NoError(t, m.Start(in), spew.Sdump(m.Diagnostics()))

	return m
}

func value(t *testing.T, m *Model, path string) float64 {
	t.Helper()

	h, err := m.Resolver().Resolve(path, addressable.UsageLookup)
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())

	return h.Value(0)
}

func TestModel_Start(t *testing.T) {
	t.Parallel()

	m := start(t, logR0(false), nil)

	e, ok := m.Estimates().ByParameter("parameter_transformation[r0_log].log_parameter")
	require.True(t, ok)
	assert.InDelta(t, math.Log(25000), e.Value(), 1e-12)
	assert.InDelta(t, 25000, value(t, m, "process[Recruitment].r0"), 1e-9)

	b := m.Transformations().Get("r0_log")
	require.NotNil(t, b)
	assert.Equal(t, transform.StateActive, b.State())
	assert.Empty(t, m.Diagnostics().Warnings)
	assert.Len(t, m.Objects(), 1)

	require.Error(t, m.Start(nil))
}

func TestModel_Objective(t *testing.T) {
	t.Parallel()

	t.Run("prior on transformed value", func(t *testing.T) {
		t.Parallel()

		m := start(t, logR0(false), nil)

		e, _ := m.Estimates().ByParameter("parameter_transformation[r0_log].log_parameter")
		e.SetValue(math.Log(30000))

		s, err := m.Objective()
		require.NoError(t, err)
		assert.InDelta(t, 30000, value(t, m, "process[Recruitment].r0"), 1e-6)
		assert.InDelta(t, math.Log(math.Log(30000)), s.Priors, 1e-12)
		assert.Zero(t, s.Jacobians)

		// the estimated cell is left on the transformed scale
		assert.InDelta(t, math.Log(30000), e.Value(), 1e-12)
	})

	t.Run("prior on restored value", func(t *testing.T) {
		t.Parallel()

		m := start(t, logR0(true), nil)

		e, _ := m.Estimates().ByParameter("parameter_transformation[r0_log].log_parameter")
		e.SetValue(math.Log(30000))

		s, err := m.Objective()
		require.NoError(t, err)
		assert.InDelta(t, math.Log(30000), s.Priors, 1e-9)
		assert.InDelta(t, -math.Log(30000), s.Jacobians, 1e-9)
		assert.InDelta(t, 0, s.Total(), 1e-9)
		assert.Contains(t, s.String(), "total=")
		assert.InDelta(t, math.Log(30000), e.Value(), 1e-12)
	})

	t.Run("before start", func(t *testing.T) {
		t.Parallel()

		m, err := New(logR0(false), nil)
		require.NoError(t, err)

		_, err = m.Objective()
		require.Error(t, err)
		assert.True(t, diagnostic.IsCodeError(err))
	})
}

func TestModel_SimplexPriorOnRestored(t *testing.T) {
	t.Parallel()

	def := Definition{
		Objects: []ObjectDefinition{recruitment()},
		Transformations: []transform.Config{{
			Label:                            "maturity",
			Type:                             "simplex",
			Parameters:                       []string{"process[Recruitment].proportions"},
			PriorAppliesToRestoredParameters: true,
		}},
		Estimates: []estimate.Definition{{
			Label:                 "maturity",
			Type:                  estimate.PriorUniformLog,
			Parameter:             "parameter_transformation[maturity].simplex",
			LowerBound:            []float64{-10, -10, -10},
			UpperBound:            []float64{10, 10, 10},
			TransformWithJacobian: ptr(true),
		}},
	}

	m := start(t, def, nil)

	last, ok := m.Estimates().ByParameter("parameter_transformation[maturity].simplex{3}")
	require.True(t, ok)
	assert.False(t, last.Estimated())
	assert.True(t, last.InObjectiveFunction())
	assert.Len(t, m.Estimates().Estimated(), 2)

	s, err := m.Objective()
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.2)+math.Log(0.3)+math.Log(0.5), s.Priors, 1e-9)
	assert.InDelta(t, -math.Log(0.2*0.8)-math.Log(0.375*0.625*0.8), s.Jacobians, 1e-9)
}

func TestModel_Input(t *testing.T) {
	t.Parallel()

	def := Definition{
		Objects: []ObjectDefinition{recruitment()},
		Transformations: []transform.Config{{
			Label:      "sex",
			Type:       "simplex",
			Parameters: []string{"process[Recruitment].sex"},
		}},
		Estimates: []estimate.Definition{{
			Label:      "sex",
			Parameter:  "parameter_transformation[sex].simplex",
			LowerBound: []float64{-10},
			UpperBound: []float64{10},
		}},
	}

	in := &input.Values{Paths: []string{"parameter_transformation[sex].simplex{1}"}, Row: []float64{0}}
	m := start(t, def, in)

	assert.InDelta(t, 0.5, value(t, m, "process[Recruitment].sex{male}"), 1e-12)
	assert.InDelta(t, 0.5, value(t, m, "process[Recruitment].sex{female}"), 1e-12)
}

func TestModel_UsageExclusivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Definition)
		want string
	}{
		{
			name: "estimated and transformed",
			mod: func(d *Definition) {
				d.Estimates = append(d.Estimates, estimate.Definition{
					Label:      "r0_direct",
					Parameter:  "process[Recruitment].r0",
					LowerBound: []float64{1},
					UpperBound: []float64{1e6},
				})
			},
			want: "@estimate block",
		},
		{
			name: "profiled and transformed",
			mod: func(d *Definition) {
				d.RunMode = RunModeProfiling
				d.Profiles = []ProfileDefinition{{Label: "r0", Parameter: "process[Recruitment].r0"}}
			},
			want: "@profile block",
		},
		{
			name: "transformed twice",
			mod: func(d *Definition) {
				d.Transformations = append(d.Transformations, transform.Config{
					Label:      "r0_inverse",
					Type:       "inverse",
					Parameters: []string{"process[Recruitment].r0"},
				})
			},
			want: "already transformed by",
		},
		{
			name: "lookup only",
			mod: func(d *Definition) {
				d.Transformations[0].Parameters = []string{"process[Recruitment].ssb"}
			},
			want: "cannot be used for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def := logR0(false)
			tt.mod(&def)

			m, err := New(def, nil)
			require.NoError(t, err)

			err = m.Start(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			diags := m.Diagnostics()
			assert.True(t, diags.HasErrors())
		})
	}
}

func TestModel_ProfileOutsideProfiling(t *testing.T) {
	t.Parallel()

	def := logR0(false)
	def.Profiles = []ProfileDefinition{{Label: "r0", Parameter: "process[Recruitment].r0"}}

	m := start(t, def, nil)
	assert.Empty(t, m.ProfiledParameters())
}

func TestModel_Warnings(t *testing.T) {
	t.Parallel()

	def := logR0(false)
	def.Estimates = nil

	m := start(t, def, nil)

	require.Len(t, m.Diagnostics().Warnings, 1)
	assert.Contains(t, m.Diagnostics().Warnings[0].Message, "no @estimate block targets")
}

func TestModel_Report(t *testing.T) {
	t.Parallel()

	m := start(t, logR0(true), nil)
	_, err := m.Objective()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Report(&buf))

	out := buf.String()
	assert.Contains(t, out, "*parameter_transformation[r0_log]\n")
	assert.Contains(t, out, "type: log\n")
	assert.Contains(t, out, "parameters: process[Recruitment].r0\n")
	assert.Contains(t, out, "parameter_values: ")
	assert.Contains(t, out, "log_parameter: ")
	assert.Contains(t, out, "*end\n")

	buf.Reset()
	require.NoError(t, m.TabularReport(&buf, true))
	assert.Contains(t, buf.String(), "parameter_transformation[r0_log].log_parameter")
}

func TestModel_TabularReport(t *testing.T) {
	t.Parallel()

	def := logR0(false)
	def.Transformations = append(def.Transformations, transform.Config{
		Label:      "sex",
		Type:       "simplex",
		Parameters: []string{"process[Recruitment].sex"},
	})

	m := start(t, def, nil)

	var buf bytes.Buffer
	require.NoError(t, m.TabularReport(&buf, true))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, buf.String())

	header, row := strings.Fields(lines[0]), strings.Fields(lines[1])
	assert.Len(t, row, len(header))
	assert.Equal(t, "parameter_transformation[r0_log].log_parameter", header[0])
	assert.Contains(t, header, "parameter_transformation[sex].simplex{1}")
	assert.Equal(t, "parameter_transformation[sex].negative_log_jacobian", header[len(header)-1])

	buf.Reset()
	require.NoError(t, m.TabularReport(&buf, false))
	assert.Equal(t, lines[1]+"\n", buf.String())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Definition)
		want string
	}{
		{
			name: "reserved type",
			mod:  func(d *Definition) { d.Objects[0].Type = "parameter_transformation" },
			want: "reserved",
		},
		{
			name: "duplicate object",
			mod:  func(d *Definition) { d.Objects = append(d.Objects, recruitment()) },
			want: "process[Recruitment]",
		},
		{
			name: "duplicate addressable",
			mod: func(d *Definition) {
				d.Objects[0].Vectors = append(d.Objects[0].Vectors, Series{Name: "R0", Values: []float64{1}})
			},
			want: "declared more than once",
		},
		{
			name: "unknown lookup only",
			mod:  func(d *Definition) { d.Objects[0].LookupOnly = []string{"b0"} },
			want: "b0 is not an addressable",
		},
		{
			name: "duplicate transformation",
			mod:  func(d *Definition) { d.Transformations = append(d.Transformations, d.Transformations[0]) },
			want: "already exists",
		},
		{
			name: "unknown transformation type",
			mod:  func(d *Definition) { d.Transformations[0].Type = "cube" },
			want: "cube",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def := logR0(false)
			tt.mod(&def)

			_, err := New(def, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseRunMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]RunMode{
		"":           RunModeBasic,
		"estimation": RunModeEstimation,
		"Profiling":  RunModeProfiling,
		"mcmc":       RunModeMCMC,
	} {
		got, err := ParseRunMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRunMode("sampling")
	require.Error(t, err)
	assert.Equal(t, "Profiling", RunModeProfiling.String())
}
