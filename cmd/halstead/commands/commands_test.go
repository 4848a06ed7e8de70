package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/halstead/cmd/halstead/commands"
	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
	"github.com/Sumatoshi-tech/halstead/pkg/report"
)

const canonicalJSON = `{"id": "proj", "kind": "project", "children": [
  {"id": "a.go", "kind": "file", "values": {
    "distinct_operands": 5, "distinct_operators": 3,
    "total_operands": 10, "total_operators": 8}}]}`

const leafYAML = `id: b.go
kind: file
values:
  distinct_operators: 4
  total_operators: 7
`

const leafTOML = `id = "c.go"
kind = "file"

[values]
distinct_operators = 2.0
distinct_operands = 2.0
total_operators = 2.0
total_operands = 2.0
`

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// run executes the root command with an empty config file and the given stdin.
func run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	cfgPath := writeFile(t, t.TempDir(), "halstead.yaml", "logging:\n  level: error\n")

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.ExecuteContext(t.Context())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decodeReports(t *testing.T, data string) []report.FileReport {
	t.Helper()

	var reports []report.FileReport
	require.NoError(t, json.Unmarshal([]byte(data), &reports))

	return reports
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, sub := range commands.NewRootCommand().Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"eval", "schema", "validate", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestEval_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "proj.json", canonicalJSON)

	res := run(t, "", "eval", "--format", "json", path)
	require.NoError(t, res.err, res.stderr)

	reports := decodeReports(t, res.stdout)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Scopes, 2)

	proj := reports[0].Scopes[0]
	assert.Equal(t, "proj", proj.Path)
	assert.InDelta(t, 37.42994775023704, proj.Metrics[halstead.Volume], 1e-9)
	assert.InDelta(t, 0.12130075659799042, proj.Metrics[halstead.Time], 1e-12)
	assert.Contains(t, res.stderr, "evaluated 1 input(s), 2 scope(s)")
}

func TestEval_MultipleFilesKeepArgumentOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "c.toml", leafTOML),
		writeFile(t, dir, "proj.json", canonicalJSON),
		writeFile(t, dir, "b.yaml", leafYAML),
	}

	res := run(t, "", append([]string{"eval", "-f", "json"}, paths...)...)
	require.NoError(t, res.err, res.stderr)

	reports := decodeReports(t, res.stdout)
	require.Len(t, reports, 3)

	for i, path := range paths {
		assert.Equal(t, path, reports[i].Source)
	}

	b := reports[2].Scopes[0]
	assert.InDelta(t, 9.704060527839234, b.Metrics[halstead.Volume], 1e-9)
	assert.InDelta(t, 2.0, b.Metrics[halstead.Difficulty], 0)
}

func TestEval_Stdin(t *testing.T) {
	t.Parallel()

	res := run(t, canonicalJSON, "eval", "--format", "json", "-")
	require.NoError(t, res.err, res.stderr)

	reports := decodeReports(t, res.stdout)
	require.Len(t, reports, 1)
	assert.Equal(t, "stdin", reports[0].Source)
}

func TestEval_StdinRepeatedIsRejected(t *testing.T) {
	t.Parallel()

	res := run(t, canonicalJSON, "eval", "-f", "json", "-", "-")
	require.ErrorIs(t, res.err, commands.ErrRepeatedStdin)
	assert.Empty(t, res.stdout)
}

func TestEval_WorkDurationOverride(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "proj.json", canonicalJSON)

	res := run(t, "", "eval", "-f", "json", "--work-duration-seconds", "1", path)
	require.NoError(t, res.err, res.stderr)

	reports := decodeReports(t, res.stdout)
	assert.InDelta(t, 7.278045395879425, reports[0].Scopes[0].Metrics[halstead.Time], 1e-9)
}

func TestEval_InvalidInputNamesScopeAndMetric(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", canonicalJSON)
	bad := writeFile(t, dir, "bad.json", `{"id": "p", "children": [{"id": "x.go", "values": {"total_operands": -3}}]}`)

	res := run(t, "", "eval", good, bad)
	require.ErrorIs(t, res.err, halstead.ErrInvalidInput)
	assert.Contains(t, res.err.Error(), "bad.json")
	assert.Contains(t, res.err.Error(), `"x.go"`)
	assert.Contains(t, res.err.Error(), "halstead_total_operands")
	assert.Contains(t, res.stderr, "1 of 2 inputs rejected")
	assert.Empty(t, res.stdout)
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "proj.json", canonicalJSON)

	res := run(t, "", "eval", "--format", "csv", path)
	require.ErrorIs(t, res.err, report.ErrUnknownFormat)

	res = run(t, "", "eval", "--work-duration-seconds", "-1", path)
	require.ErrorIs(t, res.err, halstead.ErrInvalidWorkDuration)

	res = run(t, "", "eval", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, res.err)

	res = run(t, "", "eval")
	require.Error(t, res.err)
}

func TestEval_OutputAndTelemetryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "proj.json", canonicalJSON)
	out := filepath.Join(dir, "report.prom")
	telemetry := filepath.Join(dir, "telemetry.prom")

	res := run(t, "", "eval", "-f", "prom", "-o", out, "--telemetry-file", telemetry, path)
	require.NoError(t, res.err, res.stderr)
	assert.Empty(t, res.stdout)

	reportData, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(reportData), "# TYPE halstead_effort gauge")

	telemetryData, err := os.ReadFile(telemetry)
	require.NoError(t, err)
	assert.Contains(t, string(telemetryData), "halstead_scopes_evaluated")
	assert.Contains(t, string(telemetryData), "halstead_requests_total")
}

func TestEval_TableIsDefault(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "proj.json", canonicalJSON)

	res := run(t, "", "--quiet", "eval", path)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Volume")
	assert.Contains(t, res.stdout, "37.43")
	assert.NotContains(t, res.stderr, "evaluated")
}

func TestSchemaCommand(t *testing.T) {
	t.Parallel()

	res := run(t, "", "schema")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "halstead_calculated_length")
	assert.Contains(t, res.stdout, "Time to program")

	res = run(t, "", "schema", "--format", "json")
	require.NoError(t, res.err)

	var defs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &defs))
	assert.Len(t, defs, 12)

	res = run(t, "", "schema", "--format", "yaml")
	require.ErrorIs(t, res.err, report.ErrUnknownFormat)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	res := run(t, "", "validate", writeFile(t, dir, "ok.yaml", leafYAML))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "scope tree is valid")

	res = run(t, "", "validate", writeFile(t, dir, "bad.json", `{"values": {"total_operands": -1}}`))
	require.ErrorIs(t, res.err, commands.ErrValidationFailed)
	assert.Contains(t, res.stdout, "values.total_operands")
	assert.Contains(t, res.stdout, "id is required")

	res = run(t, `{"id": "p"}`, "validate", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "(stdin)")

	res = run(t, "", "validate", "--print-schema")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"$schema"`)

	res = run(t, "", "validate")
	require.Error(t, res.err)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := run(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "halstead "))

	res = run(t, "", "version", "--json")
	require.NoError(t, res.err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.NotEmpty(t, info["go_version"])
}

func TestMCPCommand_Exists(t *testing.T) {
	t.Parallel()

	cmd := commands.NewMCPCommand()
	assert.Equal(t, "mcp", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "halstead_evaluate")
}
