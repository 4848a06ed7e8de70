package toposort

// SymbolTable provides bidirectional mapping between node names and dense integer IDs.
// IDs are assigned in first-seen order, which makes them the tie-break key of the sort.
type SymbolTable struct {
	strToID map[string]int
	idToStr []string
}

// NewSymbolTable creates a new SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		strToID: make(map[string]int),
		idToStr: make([]string, 0),
	}
}

// Intern returns the unique ID for the given name, assigning the next free ID on first use.
func (table *SymbolTable) Intern(name string) int {
	if symbolID, exists := table.strToID[name]; exists {
		return symbolID
	}

	symbolID := len(table.idToStr)
	table.idToStr = append(table.idToStr, name)
	table.strToID[name] = symbolID

	return symbolID
}

// Lookup returns the ID of an already interned name.
func (table *SymbolTable) Lookup(name string) (int, bool) {
	symbolID, exists := table.strToID[name]

	return symbolID, exists
}

// Resolve returns the name associated with the given ID.
// Returns an empty string if the ID is invalid.
func (table *SymbolTable) Resolve(id int) string {
	if id < 0 || id >= len(table.idToStr) {
		return ""
	}

	return table.idToStr[id]
}

// Len returns the number of interned names.
func (table *SymbolTable) Len() int {
	return len(table.idToStr)
}
