package halstead

// Scope kinds used by hosts that analyse source trees.
const (
	ScopeFile      = "file"
	ScopeDirectory = "directory"
	ScopeProject   = "project"
)

// Scope is one node of the analysis hierarchy. Base metric values live on leaves;
// interior base values are replaced by the sum of their children during tree evaluation.
type Scope struct {
	ID       string   `json:"id"                 yaml:"id"`
	Kind     string   `json:"kind,omitempty"     yaml:"kind,omitempty"`
	Values   Values   `json:"values"             yaml:"values"`
	Children []*Scope `json:"children,omitempty" yaml:"children,omitempty"`
}

// Counts are the four base measurements of a leaf.
type Counts struct {
	DistinctOperands  int
	DistinctOperators int
	TotalOperands     int
	TotalOperators    int
}

// Values converts the counts into a value map holding the four base metrics.
func (c Counts) Values() Values {
	return Values{
		TotalOperands:     float64(c.TotalOperands),
		DistinctOperands:  float64(c.DistinctOperands),
		TotalOperators:    float64(c.TotalOperators),
		DistinctOperators: float64(c.DistinctOperators),
	}
}

// NewScope returns an empty scope.
func NewScope(id, kind string) *Scope {
	return &Scope{ID: id, Kind: kind, Values: Values{}}
}

// NewFileScope returns a leaf scope carrying the given base counts.
func NewFileScope(id string, counts Counts) *Scope {
	return &Scope{ID: id, Kind: ScopeFile, Values: counts.Values()}
}

// AddChild appends children to s and returns s.
func (s *Scope) AddChild(children ...*Scope) *Scope {
	s.Children = append(s.Children, children...)

	return s
}

// IsLeaf reports whether s has no children.
func (s *Scope) IsLeaf() bool {
	return len(s.Children) == 0
}

// Value returns the stored value of id, or 0 when absent.
func (s *Scope) Value(id MetricID) float64 {
	return s.Values[id]
}

// Walk visits s and its descendants in post-order, children before parents.
// Nil children are skipped. The first error returned by fn stops the walk.
func (s *Scope) Walk(fn func(*Scope) error) error {
	for _, child := range s.Children {
		if child == nil {
			continue
		}

		err := child.Walk(fn)
		if err != nil {
			return err
		}
	}

	return fn(s)
}

// Find returns the first scope in pre-order whose ID matches, or nil.
func (s *Scope) Find(id string) *Scope {
	if s.ID == id {
		return s
	}

	for _, child := range s.Children {
		if child == nil {
			continue
		}

		if found := child.Find(id); found != nil {
			return found
		}
	}

	return nil
}
