package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: adds
description: Two numbers are added
steps:
  - input: "2"
  - input: "3"
  - input: "+"
expect:
  primary: [5]
`

const failingScenario = `name: wrong
description: The expected stack is wrong
steps:
  - input: "2"
expect:
  primary: [3]
`

func runTestCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// scenarioDir lays out <root>/scenarios with the given files and returns
// the scenarios directory.
func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := runTestCommand(t, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := runTestCommand(t, scenarioDir(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommandPassing(t *testing.T) {
	out, err := runTestCommand(t, scenarioDir(t, map[string]string{"adds.yaml": passingScenario}))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adds")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandFailing(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adds.yaml":  passingScenario,
		"wrong.yaml": failingScenario,
	})

	out, err := runTestCommand(t, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "primary stack mismatch")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adds.yaml":  passingScenario,
		"wrong.yaml": failingScenario,
	})

	out, err := runTestCommand(t, dir, "--filter", "add*")
	require.NoError(t, err)
	assert.NotContains(t, out, "wrong")

	_, err = runTestCommand(t, dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandJSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adds.yaml":  passingScenario,
		"wrong.yaml": failingScenario,
	})

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})
	err := cmd.Execute()
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SCENARIO_FAILED", resp.Error.Code)
}

func TestTestCommandGolden(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"adds.yaml": passingScenario})
	golden := filepath.Join(filepath.Dir(dir), "golden", "adds.golden")

	out, err := runTestCommand(t, dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adds (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "> +\n  = [5]\n")

	_, err = runTestCommand(t, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("stale\n"), 0o644))
	out, err = runTestCommand(t, dir)
	require.Error(t, err)
	assert.Contains(t, out, "transcript does not match golden file")
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	// The harness package's own scenarios and goldens use the same layout.
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	out, err := runTestCommand(t, dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}
