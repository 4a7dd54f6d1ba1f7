package schema

import (
	"fmt"
	"sort"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/ddlexport/dialect"
	"github.com/syssam/ddlexport/schema/field"
)

// Default column sizes, matching the common ORM defaults.
const (
	DefaultStringSize = 255
	DefaultPrecision  = 19
	DefaultScale      = 2
)

// realm is the atlas representation of the tables in creation order.
type realm struct {
	tables []*schema.Table
	// detached holds foreign keys that point at tables created after their
	// owner. They are added after all tables exist and dropped before any table.
	detached []*schema.ForeignKey
}

// sortTables returns the tables ordered so that every table comes after the
// tables it references. Ties are broken by name, and cycles are broken by
// picking the table with the smallest name among the blocked ones.
func sortTables(tables []*Table) []*Table {
	pending := make(map[string]*Table, len(tables))
	for _, t := range tables {
		pending[t.Name] = t
	}
	deps := make(map[string]map[string]bool, len(tables))
	for _, t := range tables {
		deps[t.Name] = make(map[string]bool)
		for _, fk := range t.ForeignKeys {
			if ref := fk.RefTable; ref != nil && ref.Name != t.Name {
				if _, ok := pending[ref.Name]; ok {
					deps[t.Name][ref.Name] = true
				}
			}
		}
	}
	sorted := make([]*Table, 0, len(tables))
	for len(pending) > 0 {
		var ready []string
		for name := range pending {
			if len(deps[name]) == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			for name := range pending {
				ready = append(ready, name)
			}
			sort.Strings(ready)
			ready = ready[:1]
		}
		sort.Strings(ready)
		for _, name := range ready {
			sorted = append(sorted, pending[name])
			delete(pending, name)
			for _, d := range deps {
				delete(d, name)
			}
		}
	}
	return sorted
}

// toAtlas converts the tables to their atlas representation for the given profile.
func toAtlas(p *dialect.Profile, tables []*Table) (*realm, error) {
	sorted := sortTables(tables)
	position := make(map[string]int, len(sorted))
	for i, t := range sorted {
		position[t.Name] = i
	}
	var (
		r  = &realm{}
		s  = schema.New(schemaName(p))
		at = make(map[string]*schema.Table, len(sorted))
	)
	for _, t := range sorted {
		a, err := atlasTable(p, t)
		if err != nil {
			return nil, err
		}
		s.AddTables(a)
		at[t.Name] = a
		r.tables = append(r.tables, a)
	}
	for _, t := range sorted {
		a := at[t.Name]
		for _, fk := range t.ForeignKeys {
			ref, ok := at[fk.RefTable.Name]
			if !ok {
				return nil, fmt.Errorf("foreign key %q references unknown table %q", fk.Symbol, fk.RefTable.Name)
			}
			afk := schema.NewForeignKey(fk.Symbol).SetRefTable(ref)
			for _, c := range fk.Columns {
				ac, ok := a.Column(c.Name)
				if !ok {
					return nil, fmt.Errorf("foreign key %q: column %q not found in table %q", fk.Symbol, c.Name, t.Name)
				}
				afk.AddColumns(ac)
			}
			for _, c := range fk.RefColumns {
				ac, ok := ref.Column(c.Name)
				if !ok {
					return nil, fmt.Errorf("foreign key %q: column %q not found in table %q", fk.Symbol, c.Name, ref.Name)
				}
				afk.AddRefColumns(ac)
			}
			if fk.OnDelete != "" {
				afk.SetOnDelete(schema.ReferenceOption(fk.OnDelete))
			}
			if fk.OnUpdate != "" {
				afk.SetOnUpdate(schema.ReferenceOption(fk.OnUpdate))
			}
			// Atlas also moves the foreign keys of tables created in one
			// plan that reference each other into ALTER TABLE statements,
			// so a cycle yields one detached constraint per edge.
			if !p.InlineCycles && position[fk.RefTable.Name] > position[t.Name] {
				afk.Table = a
				r.detached = append(r.detached, afk)
				continue
			}
			a.AddForeignKeys(afk)
		}
	}
	return r, nil
}

func schemaName(p *dialect.Profile) string {
	switch p.Name {
	case dialect.SQLite:
		return "main"
	case dialect.MySQL:
		return ""
	default:
		return "public"
	}
}

func atlasTable(p *dialect.Profile, t *Table) (*schema.Table, error) {
	a := schema.NewTable(t.Name)
	if t.Comment != "" {
		a.SetComment(t.Comment)
	}
	for _, c := range t.Columns {
		ac, err := atlasColumn(p, c)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		a.AddColumns(ac)
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]*schema.Column, 0, len(t.PrimaryKey))
		for _, c := range t.PrimaryKey {
			ac, _ := a.Column(c.Name)
			pk = append(pk, ac)
		}
		a.SetPrimaryKey(schema.NewPrimaryKey(pk...))
	}
	for _, c := range t.Columns {
		if !c.Unique || c.PrimaryKey() {
			continue
		}
		ac, _ := a.Column(c.Name)
		a.AddIndexes(schema.NewUniqueIndex(fmt.Sprintf("%s_%s_key", t.Name, c.Name)).AddColumns(ac))
	}
	for _, idx := range t.Indexes {
		ai := schema.NewIndex(idx.Name).SetUnique(idx.Unique)
		for _, c := range idx.Columns {
			ac, ok := a.Column(c.Name)
			if !ok {
				return nil, fmt.Errorf("table %q: index %q references unknown column %q", t.Name, idx.Name, c.Name)
			}
			ai.AddColumns(ac)
		}
		a.AddIndexes(ai)
	}
	return a, nil
}

func atlasColumn(p *dialect.Profile, c *Column) (*schema.Column, error) {
	t, err := atlasType(p, c)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	ac := schema.NewColumn(c.Name).SetType(t).SetNull(c.Nullable)
	if c.Default != "" {
		ac.SetDefault(&schema.RawExpr{X: c.Default})
	}
	if c.Comment != "" {
		ac.SetComment(c.Comment)
	}
	if c.Increment {
		switch p.Name {
		case dialect.MySQL:
			ac.AddAttrs(&mysql.AutoIncrement{})
		case dialect.SQLite:
			ac.AddAttrs(&sqlite.AutoIncrement{})
		case dialect.Generic:
			ac.AddAttrs(&postgres.Identity{Generation: "BY DEFAULT"})
		}
	}
	return ac, nil
}

func atlasType(p *dialect.Profile, c *Column) (schema.Type, error) {
	if c.SchemaType != "" {
		t, err := p.ParseType(c.SchemaType)
		if err != nil {
			return nil, fmt.Errorf("parse type %q: %w", c.SchemaType, err)
		}
		return t, nil
	}
	switch p.Name {
	case dialect.MySQL:
		return mysqlType(c)
	case dialect.SQLite:
		return sqliteType(c)
	case dialect.Postgres:
		return postgresType(c, true)
	default:
		return postgresType(c, false)
	}
}

func mysqlType(c *Column) (schema.Type, error) {
	switch c.Type {
	case field.TypeBool:
		return &schema.BoolType{T: "bool"}, nil
	case field.TypeInt8, field.TypeUint8:
		return &schema.IntegerType{T: "tinyint", Unsigned: c.Type.Unsigned()}, nil
	case field.TypeInt16, field.TypeUint16:
		return &schema.IntegerType{T: "smallint", Unsigned: c.Type.Unsigned()}, nil
	case field.TypeInt32, field.TypeUint32:
		return &schema.IntegerType{T: "int", Unsigned: c.Type.Unsigned()}, nil
	case field.TypeInt, field.TypeInt64, field.TypeUint, field.TypeUint64:
		return &schema.IntegerType{T: "bigint", Unsigned: c.Type.Unsigned()}, nil
	case field.TypeFloat32:
		return &schema.FloatType{T: "float"}, nil
	case field.TypeFloat64:
		return &schema.FloatType{T: "double"}, nil
	case field.TypeDecimal:
		return decimalType("decimal", c), nil
	case field.TypeString:
		switch size := stringSize(c); {
		case size > 65535:
			return &schema.StringType{T: "longtext"}, nil
		default:
			return &schema.StringType{T: "varchar", Size: int(size)}, nil
		}
	case field.TypeBytes:
		if c.Size > 65535 {
			return &schema.BinaryType{T: "longblob"}, nil
		}
		return &schema.BinaryType{T: "blob"}, nil
	case field.TypeTime:
		return &schema.TimeType{T: "datetime"}, nil
	case field.TypeJSON:
		return &schema.JSONType{T: "json"}, nil
	case field.TypeUUID:
		return &schema.StringType{T: "char", Size: 36}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s, set an explicit column type", c.Type)
	}
}

func postgresType(c *Column, native bool) (schema.Type, error) {
	if c.Increment && native {
		switch c.Type {
		case field.TypeInt8, field.TypeInt16, field.TypeUint8:
			return &postgres.SerialType{T: "smallserial"}, nil
		case field.TypeInt32, field.TypeUint16:
			return &postgres.SerialType{T: "serial"}, nil
		case field.TypeInt, field.TypeInt64, field.TypeUint32, field.TypeUint, field.TypeUint64:
			return &postgres.SerialType{T: "bigserial"}, nil
		}
	}
	switch c.Type {
	case field.TypeBool:
		return &schema.BoolType{T: "boolean"}, nil
	case field.TypeInt8, field.TypeInt16, field.TypeUint8:
		return &schema.IntegerType{T: "smallint"}, nil
	case field.TypeInt32, field.TypeUint16:
		return &schema.IntegerType{T: "integer"}, nil
	case field.TypeInt, field.TypeInt64, field.TypeUint32, field.TypeUint, field.TypeUint64:
		return &schema.IntegerType{T: "bigint"}, nil
	case field.TypeFloat32:
		return &schema.FloatType{T: "real"}, nil
	case field.TypeFloat64:
		return &schema.FloatType{T: "double precision"}, nil
	case field.TypeDecimal:
		return decimalType("numeric", c), nil
	case field.TypeString:
		return &schema.StringType{T: "character varying", Size: int(stringSize(c))}, nil
	case field.TypeBytes:
		return &schema.BinaryType{T: "bytea"}, nil
	case field.TypeTime:
		if native {
			return &schema.TimeType{T: "timestamp with time zone"}, nil
		}
		return &schema.TimeType{T: "timestamp"}, nil
	case field.TypeJSON:
		if native {
			return &schema.JSONType{T: "jsonb"}, nil
		}
		return &schema.StringType{T: "text"}, nil
	case field.TypeUUID:
		if native {
			return &schema.UUIDType{T: "uuid"}, nil
		}
		return &schema.StringType{T: "character", Size: 36}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s, set an explicit column type", c.Type)
	}
}

func sqliteType(c *Column) (schema.Type, error) {
	switch c.Type {
	case field.TypeBool:
		return &schema.BoolType{T: "bool"}, nil
	case field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt, field.TypeInt64,
		field.TypeUint8, field.TypeUint16, field.TypeUint32, field.TypeUint, field.TypeUint64:
		return &schema.IntegerType{T: "integer"}, nil
	case field.TypeFloat32, field.TypeFloat64:
		return &schema.FloatType{T: "real"}, nil
	case field.TypeDecimal:
		return decimalType("decimal", c), nil
	case field.TypeString, field.TypeUUID:
		return &schema.StringType{T: "text"}, nil
	case field.TypeBytes:
		return &schema.BinaryType{T: "blob"}, nil
	case field.TypeTime:
		return &schema.TimeType{T: "datetime"}, nil
	case field.TypeJSON:
		return &schema.JSONType{T: "json"}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s, set an explicit column type", c.Type)
	}
}

func decimalType(name string, c *Column) *schema.DecimalType {
	t := &schema.DecimalType{T: name, Precision: c.Precision, Scale: c.Scale}
	if t.Precision == 0 {
		t.Precision, t.Scale = DefaultPrecision, DefaultScale
	}
	return t
}

func stringSize(c *Column) int64 {
	if c.Size > 0 {
		return c.Size
	}
	return DefaultStringSize
}
