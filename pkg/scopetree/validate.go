package scopetree

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed scope-tree.schema.json
var documentSchema []byte

// DocumentSchema returns the JSON Schema every scope document must satisfy.
func DocumentSchema() []byte {
	return bytes.Clone(documentSchema)
}

// Violation is one schema failure.
type Violation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationResult lists every schema violation of a document.
type ValidationResult struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Valid reports whether the document satisfied the schema.
func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Validate checks data, serialized in format, against the document schema.
// A parse failure is returned as an error wrapping ErrInvalidDocument;
// schema violations are reported in the result.
func Validate(data []byte, format Format) (*ValidationResult, error) {
	generic, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentSchema),
		gojsonschema.NewGoLoader(generic),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{}

	for _, verr := range result.Errors() {
		out.Violations = append(out.Violations, Violation{
			Field:       verr.Field(),
			Description: verr.Description(),
		})
	}

	return out, nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	var generic any

	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&generic)
	case FormatYAML:
		err = yaml.Unmarshal(data, &generic)
	case FormatTOML:
		var table map[string]any

		err = toml.Unmarshal(data, &table)
		generic = table
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidDocument, format, err)
	}

	return generic, nil
}
