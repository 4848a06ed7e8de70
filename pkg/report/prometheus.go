package report

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Prometheus label names attached to every sample.
const (
	labelSource = "source"
	labelScope  = "scope"
	labelKind   = "kind"
)

// Prometheus writes one gauge family per metric in the text exposition
// format. Each scope becomes one sample labelled with its source and path.
func (r *Renderer) Prometheus(w io.Writer, results []Result) error {
	registry := prometheus.NewRegistry()
	gauges := make(map[string]*prometheus.GaugeVec)

	for _, def := range r.schema.Definitions() {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: string(def.ID),
			Help: def.Label + " (" + def.Kind.String() + ")",
		}, []string{labelSource, labelScope, labelKind})

		if err := registry.Register(vec); err != nil {
			return fmt.Errorf("register %s: %w", def.ID, err)
		}

		gauges[string(def.ID)] = vec
	}

	for _, res := range results {
		for _, row := range Flatten(res.Root) {
			for id, v := range row.Values {
				vec, ok := gauges[string(id)]
				if !ok {
					continue
				}

				vec.WithLabelValues(res.Source, row.Path, row.Kind).Set(v)
			}
		}
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
