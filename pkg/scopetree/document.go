package scopetree

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

// Document is the serialized form of a scope.
type Document struct {
	ID       string             `json:"id"                 toml:"id"                 yaml:"id"`
	Kind     string             `json:"kind,omitempty"     toml:"kind,omitempty"     yaml:"kind,omitempty"`
	Values   map[string]float64 `json:"values,omitempty"   toml:"values,omitempty"   yaml:"values,omitempty"`
	Children []*Document        `json:"children,omitempty" toml:"children,omitempty" yaml:"children,omitempty"`
}

// ToScope converts the document into a scope tree, resolving every value
// name through schema. Nil children are dropped.
func (d *Document) ToScope(schema *halstead.Schema) (*halstead.Scope, error) {
	return d.toScope(schema, d.ID)
}

func (d *Document) toScope(schema *halstead.Schema, path string) (*halstead.Scope, error) {
	scope := &halstead.Scope{
		ID:     d.ID,
		Kind:   d.Kind,
		Values: make(halstead.Values, len(d.Values)),
	}

	// Sorted so the first unknown name reported is stable.
	names := make([]string, 0, len(d.Values))
	for name := range d.Values {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		def, err := schema.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in scope %q", ErrUnknownMetricName, name, path)
		}

		scope.Values[def.ID] = d.Values[name]
	}

	for i, child := range d.Children {
		if child == nil {
			continue
		}

		childScope, err := child.toScope(schema, fmt.Sprintf("%s/children[%d]", path, i))
		if err != nil {
			return nil, err
		}

		scope.Children = append(scope.Children, childScope)
	}

	return scope, nil
}

// FromScope converts a scope tree into a document keyed by stable metric keys.
func FromScope(scope *halstead.Scope) *Document {
	doc := &Document{
		ID:   scope.ID,
		Kind: scope.Kind,
	}

	if len(scope.Values) > 0 {
		doc.Values = make(map[string]float64, len(scope.Values))
		for id, v := range scope.Values {
			doc.Values[string(id)] = v
		}
	}

	for _, child := range scope.Children {
		if child == nil {
			continue
		}

		doc.Children = append(doc.Children, FromScope(child))
	}

	return doc
}
