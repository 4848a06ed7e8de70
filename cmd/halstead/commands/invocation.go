package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/halstead/pkg/config"
	"github.com/Sumatoshi-tech/halstead/pkg/observability"
	"github.com/Sumatoshi-tech/halstead/pkg/version"
)

// invocation bundles the per-invocation configuration and telemetry.
type invocation struct {
	cfg         *config.Config
	providers   observability.Providers
	logger      *slog.Logger
	red         *observability.REDMetrics
	evaluations *observability.EvaluationMetrics
	registry    *prometheus.Registry
	runID       string
}

// newInvocation loads configuration and initializes observability for one command.
// withRegistry attaches a Prometheus registry that mirrors every OTel instrument.
func newInvocation(cmd *cobra.Command, mode observability.AppMode, logOut io.Writer, withRegistry bool) (*invocation, error) {
	cfg, err := config.LoadConfig(stringFlag(cmd, flagConfig))
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.LogLevel = cfg.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogWriter = logOut

	var registry *prometheus.Registry
	if withRegistry {
		registry = prometheus.NewRegistry()
		obsCfg.PrometheusRegistry = registry
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	evaluations, err := observability.NewEvaluationMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	runID := observability.NewRunID()

	return &invocation{
		cfg:         cfg,
		providers:   providers,
		logger:      observability.WithRunID(providers.Logger, runID),
		red:         red,
		evaluations: evaluations,
		registry:    registry,
		runID:       runID,
	}, nil
}

// close flushes telemetry. Failures are logged, not returned.
func (inv *invocation) close() {
	if err := inv.providers.Shutdown(context.Background()); err != nil {
		inv.logger.Warn("observability shutdown failed", "error", err)
	}
}
