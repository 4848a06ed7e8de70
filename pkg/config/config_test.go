package config_test

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/halstead/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "halstead.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.InDelta(t, 60.0, cfg.Schema.WorkDurationSeconds, 0)
	assert.Equal(t, 30*time.Second, cfg.Evaluation.Timeout)
	assert.Equal(t, 4, cfg.Evaluation.MaxParallelFiles)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadConfigSearchPathMissingIsNotError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxParallelFiles, cfg.Evaluation.MaxParallelFiles)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
schema:
  work_duration_seconds: 1
evaluation:
  timeout: 5s
  max_parallel_files: 8
logging:
  level: debug
  format: json
output:
  format: yaml
observability:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  sample_ratio: 0.5
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, cfg.Schema.WorkDurationSeconds, 0)
	assert.Equal(t, 5*time.Second, cfg.Evaluation.Timeout)
	assert.Equal(t, 8, cfg.Evaluation.MaxParallelFiles)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.True(t, cfg.Observability.OTLPInsecure)
	assert.InDelta(t, 0.5, cfg.Observability.SampleRatio, 0)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HALSTEAD_SCHEMA_WORK_DURATION_SECONDS", "30")
	t.Setenv("HALSTEAD_OUTPUT_FORMAT", "json")
	t.Setenv("HALSTEAD_EVALUATION_MAX_PARALLEL_FILES", "2")

	cfg, err := config.LoadConfig(writeConfig(t, "output:\n  format: prom\n"))
	require.NoError(t, err)

	assert.InDelta(t, 30.0, cfg.Schema.WorkDurationSeconds, 0)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Evaluation.MaxParallelFiles)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "schema: [unterminated"))
	require.Error(t, err)
}

func TestLoadConfigValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"zero work duration", "schema:\n  work_duration_seconds: 0\n", config.ErrInvalidWorkDuration},
		{"negative work duration", "schema:\n  work_duration_seconds: -5\n", config.ErrInvalidWorkDuration},
		{"negative timeout", "evaluation:\n  timeout: -1s\n", config.ErrInvalidTimeout},
		{"zero parallelism", "evaluation:\n  max_parallel_files: 0\n", config.ErrInvalidParallelism},
		{"bad level", "logging:\n  level: chatty\n", config.ErrInvalidLogLevel},
		{"bad log format", "logging:\n  format: xml\n", config.ErrInvalidFormat},
		{"bad output format", "output:\n  format: csv\n", config.ErrInvalidFormat},
		{"bad sample ratio", "observability:\n  sample_ratio: 2\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateRejectsNaNWorkDuration(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Schema.WorkDurationSeconds = math.NaN()

	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidWorkDuration)
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg.Logging.Level = level
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
}

func TestOutputFormatsIsCopy(t *testing.T) {
	t.Parallel()

	formats := config.OutputFormats()
	formats[0] = "mutated"

	assert.Equal(t, "table", config.OutputFormats()[0])
}
