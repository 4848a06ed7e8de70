// Package config loads halstead settings from a YAML file and HALSTEAD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkDuration = errors.New("schema work duration must be positive and finite")
	ErrInvalidTimeout      = errors.New("evaluation timeout must not be negative")
	ErrInvalidParallelism  = errors.New("max parallel files must be positive")
	ErrInvalidLogLevel     = errors.New("unknown log level")
	ErrInvalidFormat       = errors.New("unknown format")
	ErrInvalidSampleRatio  = errors.New("sample ratio must be within [0, 1]")
)

const envPrefix = "HALSTEAD"

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
	outputFormats = []string{"table", "json", "yaml", "prom", "html"}
)

// Config holds all configuration for the halstead CLI and MCP server.
type Config struct {
	Schema        SchemaConfig        `mapstructure:"schema"`
	Evaluation    EvaluationConfig    `mapstructure:"evaluation"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Output        OutputConfig        `mapstructure:"output"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SchemaConfig holds the metric schema parameters.
type SchemaConfig struct {
	WorkDurationSeconds float64 `mapstructure:"work_duration_seconds"`
}

// EvaluationConfig holds tree evaluation limits.
type EvaluationConfig struct {
	// Timeout bounds one eval invocation. Zero disables the deadline.
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxParallelFiles int           `mapstructure:"max_parallel_files"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds the default report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds the OpenTelemetry exporter settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches for halstead.yaml in ".", "./config" and
// "$HOME/.config/halstead"; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("halstead")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/halstead")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	return &Config{
		Schema:     SchemaConfig{WorkDurationSeconds: DefaultWorkDurationSeconds},
		Evaluation: EvaluationConfig{Timeout: DefaultEvaluationTimeout, MaxParallelFiles: DefaultMaxParallelFiles},
		Logging:    LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:     OutputConfig{Format: DefaultOutputFormat},
		Observability: ObservabilityConfig{
			OTLPInsecure: DefaultOTLPInsecure,
			SampleRatio:  DefaultSampleRatio,
		},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("schema.work_duration_seconds", DefaultWorkDurationSeconds)

	viperCfg.SetDefault("evaluation.timeout", DefaultEvaluationTimeout.String())
	viperCfg.SetDefault("evaluation.max_parallel_files", DefaultMaxParallelFiles)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	wd := c.Schema.WorkDurationSeconds
	if wd <= 0 || math.IsNaN(wd) || math.IsInf(wd, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWorkDuration, wd)
	}

	if c.Evaluation.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Evaluation.Timeout)
	}

	if c.Evaluation.MaxParallelFiles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidParallelism, c.Evaluation.MaxParallelFiles)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q", ErrInvalidFormat, c.Logging.Format)
	}

	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("%w: output.format %q", ErrInvalidFormat, c.Output.Format)
	}

	ratio := c.Observability.SampleRatio
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, ratio)
	}

	return nil
}

// SlogLevel maps Logging.Level onto a slog level. Unknown names map to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OutputFormats lists the report formats accepted by output.format.
func OutputFormats() []string {
	return slices.Clone(outputFormats)
}
