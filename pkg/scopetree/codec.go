package scopetree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

// DecodeDocument parses one document from r.
func DecodeDocument(r io.Reader, format Format) (*Document, error) {
	var doc Document

	var err error

	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty %s document", ErrInvalidDocument, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidDocument, format, err)
	}

	return &doc, nil
}

// Decode parses r and converts it into a scope tree using schema to resolve
// metric names. A nil schema means halstead.Default().
func Decode(r io.Reader, format Format, schema *halstead.Schema) (*halstead.Scope, error) {
	if schema == nil {
		schema = halstead.Default()
	}

	doc, err := DecodeDocument(r, format)
	if err != nil {
		return nil, err
	}

	return doc.ToScope(schema)
}

// DecodeFile opens path and decodes it in the format named by its extension.
func DecodeFile(path string, schema *halstead.Schema) (*halstead.Scope, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scope document: %w", err)
	}
	defer f.Close()

	scope, err := Decode(f, format, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return scope, nil
}

// Encode writes root to w in the given format.
func Encode(w io.Writer, root *halstead.Scope, format Format) error {
	if root == nil {
		return halstead.ErrNilScope
	}

	doc := FromScope(root)

	var err error

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)

		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	return nil
}
