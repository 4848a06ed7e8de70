// Package scopetree reads and writes Halstead scope trees as JSON, YAML or
// TOML documents and validates them against an embedded JSON Schema.
//
// A document is a recursive object:
//
//	{"id": "proj", "kind": "project", "values": {...}, "children": [...]}
//
// Value keys may be stable metric keys ("halstead_total_operands") or short
// names ("total_operands").
package scopetree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a document serialization.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Sentinel errors.
var (
	ErrUnknownFormat     = errors.New("unknown document format")
	ErrUnknownMetricName = errors.New("unknown metric name")
	ErrInvalidDocument   = errors.New("invalid scope document")
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat maps a format name onto a Format. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}

	return ParseFormat(ext)
}
