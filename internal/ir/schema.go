package ir

import "strings"

// Column describes one column of a schema table.
type Column struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SchemaTable describes one table. Aliases are the natural-language names
// the table answers to.
type SchemaTable struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
	PrimaryKey  string   `json:"primary_key,omitempty"`
}

// HasColumn reports whether the table declares a column with exactly this name.
func (t *SchemaTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// JoinEdge is a declared join between two tables.
type JoinEdge struct {
	LeftTable  string `json:"left_table"`
	RightTable string `json:"right_table"`
	Predicate  string `json:"predicate"`
}

// Schema is the static schema description. Tables keep insertion order,
// which is the tie-break order for every first-match rule.
type Schema struct {
	tables []*SchemaTable
	index  map[string]int
	Joins  []JoinEdge `json:"joins"`
}

// NewSchema builds a schema from tables in declaration order.
// A later table with a duplicate name replaces the earlier one in place.
func NewSchema(tables []SchemaTable, joins []JoinEdge) *Schema {
	s := &Schema{index: make(map[string]int, len(tables))}
	for i := range tables {
		s.AddTable(tables[i])
	}
	s.Joins = append(s.Joins, joins...)
	return s
}

// AddTable appends a table, keeping insertion order.
// Only used while building; a loaded Schema is never mutated.
func (s *Schema) AddTable(t SchemaTable) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	tbl := t
	if i, ok := s.index[t.Name]; ok {
		s.tables[i] = &tbl
		return
	}
	s.index[t.Name] = len(s.tables)
	s.tables = append(s.tables, &tbl)
}

// Table returns the named table.
func (s *Schema) Table(name string) (*SchemaTable, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.tables[i], true
}

// HasTable reports whether the schema declares the named table.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.Table(name)
	return ok
}

// Tables returns all tables in declaration order.
// The returned slice must not be modified.
func (s *Schema) Tables() []*SchemaTable {
	if s == nil {
		return nil
	}
	return s.tables
}

// TableNames returns table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables()))
	for _, t := range s.Tables() {
		names = append(names, t.Name)
	}
	return names
}

// Len returns the number of tables.
func (s *Schema) Len() int {
	return len(s.Tables())
}

// Neighbors returns the join edges touching table, in declaration order.
func (s *Schema) Neighbors(table string) []JoinEdge {
	var out []JoinEdge
	for _, j := range s.Joins {
		if j.LeftTable == table || j.RightTable == table {
			out = append(out, j)
		}
	}
	return out
}

// Qualify renders TABLE.COLUMN.
func Qualify(table, column string) string {
	return table + "." + column
}

// SplitQualified splits TABLE.COLUMN. ok is false without a dot.
func SplitQualified(ref string) (table, column string, ok bool) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", "", false
	}
	return ref[:i], ref[i+1:], true
}
