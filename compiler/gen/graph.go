package gen

import (
	"errors"
	"fmt"
	"sort"

	"github.com/syssam/ddlexport/compiler/load"
	"github.com/syssam/ddlexport/dialect/sql/schema"
	"github.com/syssam/ddlexport/schema/field"
)

// Graph holds the mapped entities of one run. The dialect they are exported
// for is read from the embedded Config and resolved when scripts are generated.
type Graph struct {
	*Config
	// Nodes are the entities mapped to tables, sorted by name.
	Nodes []*Type
	// Superclasses are the mapped superclasses by fully-qualified name. They
	// contribute fields to the entities embedding them and have no table.
	Superclasses map[string]*load.Entity

	naming     NamingStrategy
	candidates map[string]*load.Entity
	nodes      map[string]*Type
}

// NewGraph builds the graph of the given candidates. Every candidate is
// registered; a type carrying both markers is mapped once, as an entity.
func NewGraph(c *Config, entities ...*load.Entity) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	naming, err := NamingStrategyOf(c.Naming)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		Config:       c,
		Superclasses: make(map[string]*load.Entity),
		naming:       naming,
		candidates:   make(map[string]*load.Entity, len(entities)),
		nodes:        make(map[string]*Type, len(entities)),
	}
	for _, e := range entities {
		if prev, ok := g.candidates[e.Name]; ok {
			prev.Marker |= e.Marker
			continue
		}
		g.candidates[e.Name] = e
	}
	names := make([]string, 0, len(g.candidates))
	for name := range g.candidates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := g.candidates[name]
		c.logger().Info("discovered type", "entity", e.Name, "marker", e.Marker.String())
		if !e.IsEntity() {
			g.Superclasses[name] = e
			continue
		}
		t := &Type{Name: name, Table: e.Table, Entity: e}
		if t.Table == "" {
			t.Table = naming.TableName(e.Type)
		}
		g.Nodes = append(g.Nodes, t)
		g.nodes[name] = t
	}
	for _, t := range g.Nodes {
		if err := g.resolveFields(t); err != nil {
			return nil, err
		}
	}
	for _, t := range g.Nodes {
		if err := g.resolveReferences(t); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// resolveFields maps the fields of the entity and its embedded superclasses,
// and determines its primary key.
func (g *Graph) resolveFields(t *Type) error {
	if err := g.addFields(t, t.Entity, map[string]bool{t.Name: true}); err != nil {
		return err
	}
	for _, f := range t.Fields {
		if f.PK {
			t.ID = append(t.ID, f)
		}
	}
	if len(t.ID) == 0 {
		for _, f := range t.Fields {
			if (f.Name == "ID" || f.Name == "Id") && !f.IsReference() {
				f.PK = true
				t.ID = append(t.ID, f)
				break
			}
		}
	}
	for _, f := range t.ID {
		if f.IsReference() {
			return NewSchemaError(t.Name, f.Name, "a reference cannot be part of the primary key", nil)
		}
		f.Nullable = false
	}
	return nil
}

func (g *Graph) addFields(t *Type, e *load.Entity, visited map[string]bool) error {
	log := g.logger().With("entity", t.Name)
	for _, lf := range e.Fields {
		switch {
		case lf.Skipped():
			log.Debug("skipping field", "field", lf.Name, "reason", "ddl:\"-\"")
			continue
		case lf.Embedded:
			sup, ok := g.candidates[lf.Type.Ident]
			if !ok {
				log.Debug("skipping embedded type", "field", lf.Name, "type", lf.Type.Ident)
				continue
			}
			if visited[sup.Name] {
				return NewSchemaError(t.Name, lf.Name, fmt.Sprintf("type %s embeds itself", sup.Name), nil)
			}
			visited[sup.Name] = true
			if err := g.addFields(t, sup, visited); err != nil {
				return err
			}
			delete(visited, sup.Name)
			continue
		case !lf.Exported:
			log.Debug("skipping field", "field", lf.Name, "reason", "unexported")
			continue
		}
		f, err := g.newField(t, lf)
		if err != nil {
			return err
		}
		if f != nil {
			t.Fields = append(t.Fields, f)
		}
	}
	return nil
}

// newField maps one struct field. It returns nil for fields that produce no
// column, like the inverse side of a relation.
func (g *Graph) newField(t *Type, lf *load.Field) (*Field, error) {
	tag, err := parseTag(lf.Tag)
	if err != nil {
		return nil, NewSchemaError(t.Name, lf.Name, "invalid ddl tag", err)
	}
	f := &Field{
		Name:        lf.Name,
		GoType:      lf.Type.String(),
		PK:          tag.PK,
		Increment:   tag.Auto,
		Unique:      tag.Unique,
		Size:        tag.Size,
		Precision:   tag.Precision,
		Scale:       tag.Scale,
		SchemaType:  tag.Type,
		Default:     tag.Default,
		Comment:     tag.Comment,
		UniqueIndex: tag.UniqueIndex,
		OnDelete:    tag.OnDelete,
		OnUpdate:    tag.OnUpdate,
		Pos:         lf.Pos,
		tag:         tag,
	}
	if tag.Index {
		f.Index = tag.IndexName
		if f.Index == "" {
			f.Index = fmt.Sprintf("%s_%s_idx", t.Table, g.columnName(f))
		}
	}
	if ref, ok := g.candidates[lf.Type.Ident]; ok && lf.Type.Struct {
		switch {
		case lf.Type.Slice:
			g.logger().Debug("skipping inverse side", "entity", t.Name, "field", lf.Name, "type", ref.Name)
			return nil, nil
		case !ref.IsEntity():
			return nil, NewSchemaError(t.Name, lf.Name, fmt.Sprintf("cannot reference mapped superclass %s", ref.Name), nil)
		}
		f.Ref = g.nodes[ref.Name]
		f.Nullable = lf.Type.Pointer
		f.applyNullability()
		return f, nil
	}
	if f.Type, f.Nullable, err = columnType(lf.Type); err != nil {
		return nil, NewSchemaError(t.Name, lf.Name, "", err)
	}
	if (f.Precision > 0 || f.Scale > 0) && f.Type != field.TypeDecimal {
		return nil, NewSchemaError(t.Name, lf.Name, fmt.Sprintf("precision and scale apply to decimal fields, not %s", f.Type), nil)
	}
	f.Column = g.columnName(f)
	f.applyNullability()
	return f, nil
}

func (f *Field) applyNullability() {
	switch {
	case f.tag.NotNull:
		f.Nullable = false
	case f.tag.Null:
		f.Nullable = true
	}
}

func (g *Graph) columnName(f *Field) string {
	if f.tag != nil && f.tag.Name != "" {
		return f.tag.Name
	}
	return g.naming.ColumnName(f.Name)
}

// resolveReferences names the foreign key columns of t. It runs once the
// primary keys of all entities are known.
func (g *Graph) resolveReferences(t *Type) error {
	for _, f := range t.ForeignKeys() {
		if len(f.Ref.ID) == 0 {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("referenced entity %s has no primary key", f.Ref.Name), nil)
		}
		if f.tag.Name != "" && len(f.Ref.ID) > 1 {
			return NewSchemaError(t.Name, f.Name, "tag option name cannot be used with a composite reference", nil)
		}
		col := g.naming.ColumnName(f.Name)
		for _, pk := range f.Ref.ID {
			name := f.tag.Name
			if name == "" {
				name = g.naming.ForeignKeyName(col, pk.Column)
			}
			f.Columns = append(f.Columns, name)
		}
		if f.Index != "" && f.tag.IndexName == "" {
			f.Index = fmt.Sprintf("%s_%s_idx", t.Table, f.Columns[0])
		}
	}
	return nil
}

// Tables returns the relational model of the graph, validated. Validation
// warnings are logged; errors are returned as ValidationErrors.
func (g *Graph) Tables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(g.Nodes))
	byName := make(map[string]*schema.Table, len(g.Nodes))
	for _, t := range g.Nodes {
		st := schema.NewTable(t.Table)
		for _, f := range t.Fields {
			if f.IsReference() {
				continue
			}
			c := &schema.Column{
				Name:       f.Column,
				Type:       f.Type,
				SchemaType: f.SchemaType,
				Size:       f.Size,
				Precision:  f.Precision,
				Scale:      f.Scale,
				Nullable:   f.Nullable,
				Unique:     f.Unique,
				Increment:  f.Increment,
				Default:    f.Default,
				Comment:    f.Comment,
			}
			if f.PK {
				st.AddPrimary(c)
				continue
			}
			st.AddColumn(c)
		}
		tables = append(tables, st)
		byName[t.Name] = st
	}
	for _, t := range g.Nodes {
		st := byName[t.Name]
		for _, f := range t.ForeignKeys() {
			ref := byName[f.Ref.Name]
			fk := &schema.ForeignKey{
				Symbol:   fmt.Sprintf("%s_%s_fkey", st.Name, f.Columns[0]),
				RefTable: ref,
				OnDelete: f.OnDelete,
				OnUpdate: f.OnUpdate,
			}
			for i, name := range f.Columns {
				pk := ref.PrimaryKey[i]
				c := &schema.Column{
					Name:       name,
					Type:       pk.Type,
					SchemaType: pk.SchemaType,
					Size:       pk.Size,
					Precision:  pk.Precision,
					Scale:      pk.Scale,
					Nullable:   f.Nullable,
					Unique:     f.Unique,
					Comment:    f.Comment,
				}
				st.AddColumn(c)
				fk.Columns = append(fk.Columns, c)
				fk.RefColumns = append(fk.RefColumns, pk)
			}
			st.AddForeignKey(fk)
		}
		addIndexes(st, t)
	}
	result := schema.ValidateSchema(tables)
	for _, w := range result.Warnings {
		g.logger().Warn("schema validation", "table", w.Table, "column", w.Column, "warning", w.Message)
	}
	if result.HasErrors() {
		errs := make([]error, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, &ValidationError{Type: e.Table, Field: e.Column, Message: e.Message})
		}
		return nil, errors.Join(errs...)
	}
	return tables, nil
}

// addIndexes adds the indexes declared with the index and uniqueIndex tag
// options. Fields sharing an index name form one composite index, ordered by
// field declaration.
func addIndexes(st *schema.Table, t *Type) {
	type index struct {
		name    string
		unique  bool
		columns []string
	}
	var (
		order   []*index
		indexes = make(map[string]*index)
	)
	add := func(name string, unique bool, columns ...string) {
		idx, ok := indexes[name]
		if !ok {
			idx = &index{name: name, unique: unique}
			indexes[name] = idx
			order = append(order, idx)
		}
		idx.columns = append(idx.columns, columns...)
	}
	for _, f := range t.Fields {
		columns := f.Columns
		if !f.IsReference() {
			columns = []string{f.Column}
		}
		if f.Index != "" {
			add(f.Index, false, columns...)
		}
		if f.UniqueIndex != "" {
			add(f.UniqueIndex, true, columns...)
		}
	}
	for _, idx := range order {
		st.AddIndex(idx.name, idx.unique, idx.columns)
	}
}
