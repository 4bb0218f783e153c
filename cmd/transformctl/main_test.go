package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelFile = `run_mode: estimation
objects:
  - type: process
    label: Recruitment
    scalars: {r0: 25000}
    string_maps:
      sex: {male: 0.45, female: 0.55}
transformations:
  - label: r0_log
    type: log
    parameters: process[Recruitment].r0
  - label: sex
    type: simplex
    parameters: process[Recruitment].sex
estimates:
  - label: r0
    parameter: parameter_transformation[r0_log].log_parameter
    lower_bound: 5
    upper_bound: 15
`

func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(func(k string) string { return env[k] })

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCheck(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.yaml", modelFile)

	out, err := run(t, nil, "check", path, "--log-level", "off")
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 transformations, 1 estimates, 1 warnings\n", out)
}

func TestCheck_Errors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.yaml", modelFile+`  - label: r0_direct
    parameter: process[Recruitment].r0
    lower_bound: 1
    upper_bound: 100000
`)

	_, err := run(t, map[string]string{"TRANSFORM_LOG_LEVEL": "off"}, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@estimate block")

	_, err = run(t, nil, "check", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log level "loud"`)

	_, err = run(t, nil, "check")
	require.Error(t, err)
}

func TestReport(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.yaml", modelFile)
	in := writeFile(t, "start.txt", "parameter_transformation[sex].simplex{1}\n0\n")

	out, err := run(t, nil, "report", path, "-i", in, "--log-level", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "*parameter_transformation[r0_log]\n")
	assert.Contains(t, out, "*parameter_transformation[sex]\n")
	assert.Contains(t, out, "parameter_values: 0.5 0.5\n")

	out, err = run(t, nil, "report", path, "--tabular", "--log-level", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "parameter_transformation[sex].simplex{1}")
}

func TestObjective(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.yaml", modelFile)

	out, err := run(t, nil, "objective", path, "--log-level", "off", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "priors=0 jacobians=0 total=0\n")
	assert.Contains(t, out, "(model.Score) {")
	assert.Contains(t, out, "Priors: (float64) 0,")
	assert.Contains(t, out, "Jacobians: (float64) 0")
}
