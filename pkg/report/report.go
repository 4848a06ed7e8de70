// Package report renders evaluated Halstead scope trees for people and
// machines: text tables, JSON, YAML, Prometheus exposition text and HTML charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

// Format is an output rendering.
type Format string

// Supported formats.
const (
	FormatTable      Format = "table"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatPrometheus Format = "prom"
	FormatHTML       Format = "html"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown report format")

// Result is one evaluated tree and the input it came from.
type Result struct {
	Source string
	Root   *halstead.Scope
}

// ParseFormat maps a format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatPrometheus, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Renderer writes results in one format.
type Renderer struct {
	schema *halstead.Schema
}

// NewRenderer returns a renderer labelling metrics from schema.
// A nil schema means halstead.Default().
func NewRenderer(schema *halstead.Schema) *Renderer {
	if schema == nil {
		schema = halstead.Default()
	}

	return &Renderer{schema: schema}
}

// Render writes results to w in the given format, preserving their order.
func (r *Renderer) Render(w io.Writer, format Format, results []Result) error {
	switch format {
	case FormatTable:
		return r.Table(w, results)
	case FormatJSON:
		return r.JSON(w, results)
	case FormatYAML:
		return r.YAML(w, results)
	case FormatPrometheus:
		return r.Prometheus(w, results)
	case FormatHTML:
		return r.HTML(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
