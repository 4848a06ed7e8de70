package report

import (
	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

// Row is one scope of a flattened tree.
type Row struct {
	Path   string
	ID     string
	Kind   string
	Depth  int
	Leaf   bool
	Values halstead.Values
}

// Flatten lists root and its descendants in pre-order, parents before
// children, with slash-joined paths of scope IDs. Nil children are skipped.
func Flatten(root *halstead.Scope) []Row {
	if root == nil {
		return nil
	}

	var rows []Row

	var walk func(s *halstead.Scope, prefix string, depth int)

	walk = func(s *halstead.Scope, prefix string, depth int) {
		path := s.ID
		if prefix != "" {
			path = prefix + "/" + s.ID
		}

		idx := len(rows)
		rows = append(rows, Row{Path: path, ID: s.ID, Kind: s.Kind, Depth: depth, Leaf: true, Values: s.Values})

		for _, child := range s.Children {
			if child != nil {
				rows[idx].Leaf = false
				walk(child, path, depth+1)
			}
		}
	}

	walk(root, "", 0)

	return rows
}
