// Package schema holds the dialect-neutral relational model derived from the
// mapped entities, and plans its create and drop scripts through atlas.
package schema

import (
	"github.com/syssam/ddlexport/schema/field"
)

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options (actions) specified by ON UPDATE and ON DELETE
// subclauses of the FOREIGN KEY clause.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// Table describes a table in the database.
type Table struct {
	Name        string
	Comment     string
	Columns     []*Column
	columns     map[string]*Column
	Indexes     []*Index
	PrimaryKey  []*Column
	ForeignKeys []*ForeignKey
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		columns: make(map[string]*Column),
	}
}

// AddColumn adds a new column to the table.
func (t *Table) AddColumn(c *Column) *Table {
	if t.columns == nil {
		t.columns = make(map[string]*Column)
	}
	t.columns[c.Name] = c
	t.Columns = append(t.Columns, c)
	return t
}

// AddPrimary adds a new primary key column to the table.
func (t *Table) AddPrimary(c *Column) *Table {
	c.Key = PrimaryKey
	c.Nullable = false
	t.AddColumn(c)
	t.PrimaryKey = append(t.PrimaryKey, c)
	return t
}

// AddIndex creates and adds a new index to the table from the given options.
func (t *Table) AddIndex(name string, unique bool, columns []string) *Table {
	idx := &Index{Name: name, Unique: unique}
	for _, name := range columns {
		c, ok := t.Column(name)
		if !ok {
			// Reported by ValidateTable as a dangling index column.
			c = &Column{Name: name}
		}
		idx.Columns = append(idx.Columns, c)
	}
	t.Indexes = append(t.Indexes, idx)
	return t
}

// AddForeignKey adds a foreign key to the table.
func (t *Table) AddForeignKey(fk *ForeignKey) *Table {
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// SetComment sets the table comment.
func (t *Table) SetComment(c string) *Table {
	t.Comment = c
	return t
}

// Column returns the column with the given name, if exists.
func (t *Table) Column(name string) (*Column, bool) {
	if c, ok := t.columns[name]; ok {
		return c, true
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports if the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Column key types.
const (
	PrimaryKey  = "PRI" // primary key
	UniqueKey   = "UNI" // unique key
	MultipleKey = "MUL" // multiple key
)

// Column schema definition for SQL dialects.
type Column struct {
	Name       string
	Type       field.Type
	SchemaType string // raw column type in the target dialect syntax.
	Key        string
	Size       int64
	Precision  int
	Scale      int
	Nullable   bool
	Unique     bool
	Increment  bool
	Default    string // raw SQL default expression.
	Comment    string
}

// PrimaryKey reports if the column is a primary key.
func (c *Column) PrimaryKey() bool { return c.Key == PrimaryKey }

// Index definition for table index.
type Index struct {
	Name    string
	Unique  bool
	Columns []*Column
}

// ForeignKey definition for creation.
type ForeignKey struct {
	Symbol     string
	Columns    []*Column
	RefTable   *Table
	RefColumns []*Column
	OnUpdate   ReferenceOption
	OnDelete   ReferenceOption
}
