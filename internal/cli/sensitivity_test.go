package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityFromScenario(t *testing.T) {
	path := writeScenarioFile(t, testScenarioWithSweepYAML)

	buf := &bytes.Buffer{}
	cmd := NewSensitivityCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Sensitivity: bed_turnover over bed_count")
	assert.Contains(t, output, "(base)")
	assert.Contains(t, output, "300")
}

func TestSensitivityAdHocSweep(t *testing.T) {
	path := writeScenarioFile(t, testScenarioYAML)

	buf := &bytes.Buffer{}
	cmd := NewSensitivityCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--param", "average_occupancy", "--values", "0.65,0.75,0.85"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Sensitivity: bed_turnover over average_occupancy")
}

func TestSensitivityJSON(t *testing.T) {
	path := writeScenarioFile(t, testScenarioWithSweepYAML)

	buf := &bytes.Buffer{}
	cmd := NewSensitivityCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	sweeps := decoded["sweeps"].([]any)
	require.Len(t, sweeps, 1)
	assert.Equal(t, "bed_count", sweeps[0].(map[string]any)["param"])

	_, hasResult := decoded["result"]
	assert.False(t, hasResult)
}

func TestSensitivityNoSweeps(t *testing.T) {
	path := writeScenarioFile(t, testScenarioYAML)

	cmd := NewSensitivityCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSensitivityUnknownParam(t *testing.T) {
	path := writeScenarioFile(t, testScenarioYAML)

	cmd := NewSensitivityCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--param", "nope", "--values", "1,2"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
