package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

// FileReport is the machine-readable form of one result.
type FileReport struct {
	Source string        `json:"source" yaml:"source"`
	Scopes []ScopeReport `json:"scopes" yaml:"scopes"`
}

// ScopeReport holds every metric of one scope plus its assessment.
type ScopeReport struct {
	Path       string          `json:"path"           yaml:"path"`
	ID         string          `json:"id"             yaml:"id"`
	Kind       string          `json:"kind,omitempty" yaml:"kind,omitempty"`
	Metrics    halstead.Values `json:"metrics"        yaml:"metrics"`
	Assessment Assessment      `json:"assessment"     yaml:"assessment"`
}

// Build converts results into their machine-readable form.
func Build(results []Result) []FileReport {
	out := make([]FileReport, 0, len(results))

	for _, res := range results {
		rows := Flatten(res.Root)
		fr := FileReport{Source: res.Source, Scopes: make([]ScopeReport, 0, len(rows))}

		for _, row := range rows {
			fr.Scopes = append(fr.Scopes, ScopeReport{
				Path:       row.Path,
				ID:         row.ID,
				Kind:       row.Kind,
				Metrics:    row.Values,
				Assessment: Assess(row.Values),
			})
		}

		out = append(out, fr)
	}

	return out
}

// JSON writes the results as an indented JSON array.
func (r *Renderer) JSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(Build(results)); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

// YAML writes the results as a YAML sequence.
func (r *Renderer) YAML(w io.Writer, results []Result) error {
	data, err := yaml.Marshal(Build(results))
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("write yaml report: %w", err)
	}

	return nil
}

// SchemaJSON writes the metric definitions as JSON.
func (r *Renderer) SchemaJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r.schema.Definitions()); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	return nil
}
