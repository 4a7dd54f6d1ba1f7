package gen

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/ddlexport/compiler/load"
	"github.com/syssam/ddlexport/dialect/sql/schema"
	"github.com/syssam/ddlexport/schema/field"
)

// Type is an entity of the graph, mapped to one table.
type Type struct {
	// Name is the fully-qualified type name, e.g. "example.com/shop/entity.Order".
	Name   string
	Table  string
	Entity *load.Entity
	// Fields holds the mapped fields in declaration order, with the fields of
	// embedded superclasses flattened in place.
	Fields []*Field
	// ID holds the primary key fields.
	ID []*Field
}

// HasCompositeID reports if the type has a primary key with more than one column.
func (t *Type) HasCompositeID() bool { return len(t.ID) > 1 }

// ForeignKeys returns the fields referencing other entities.
func (t *Type) ForeignKeys() []*Field {
	var fks []*Field
	for _, f := range t.Fields {
		if f.Ref != nil {
			fks = append(fks, f)
		}
	}
	return fks
}

// Field is a mapped struct field. A field referencing another entity expands
// to one column per primary key column of the referenced type.
type Field struct {
	// Name is the Go field name.
	Name string
	// Column is the column name. Empty for references, see Columns.
	Column      string
	Type        field.Type
	GoType      string
	Nullable    bool
	PK          bool
	Increment   bool
	Unique      bool
	Size        int64
	Precision   int
	Scale       int
	SchemaType  string
	Default     string
	Comment     string
	Index       string // non-unique index name
	UniqueIndex string
	Pos         string

	// Ref is the referenced entity of a many-to-one field.
	Ref      *Type
	Columns  []string
	OnDelete schema.ReferenceOption
	OnUpdate schema.ReferenceOption

	tag *fieldTag
}

// IsReference reports if the field is a foreign key to another entity.
func (f *Field) IsReference() bool { return f.Ref != nil }

// typeName returns the qualified identifier of a Go type, matching load.TypeRef.Ident.
func typeName(t reflect.Type) string { return t.PkgPath() + "." + t.Name() }

// knownTypes maps well-known named types to their column type. The boolean
// reports whether the type represents a nullable value on its own.
var knownTypes = map[string]struct {
	typ      field.Type
	nullable bool
}{
	typeName(reflect.TypeOf(time.Time{})):           {field.TypeTime, false},
	typeName(reflect.TypeOf(json.RawMessage{})):     {field.TypeJSON, false},
	typeName(reflect.TypeOf(uuid.UUID{})):           {field.TypeUUID, false},
	typeName(reflect.TypeOf(uuid.NullUUID{})):       {field.TypeUUID, true},
	typeName(reflect.TypeOf(decimal.Decimal{})):     {field.TypeDecimal, false},
	typeName(reflect.TypeOf(decimal.NullDecimal{})): {field.TypeDecimal, true},
	typeName(reflect.TypeOf(sql.NullString{})):      {field.TypeString, true},
	typeName(reflect.TypeOf(sql.NullBool{})):        {field.TypeBool, true},
	typeName(reflect.TypeOf(sql.NullByte{})):        {field.TypeUint8, true},
	typeName(reflect.TypeOf(sql.NullInt16{})):       {field.TypeInt16, true},
	typeName(reflect.TypeOf(sql.NullInt32{})):       {field.TypeInt32, true},
	typeName(reflect.TypeOf(sql.NullInt64{})):       {field.TypeInt64, true},
	typeName(reflect.TypeOf(sql.NullFloat64{})):     {field.TypeFloat64, true},
	typeName(reflect.TypeOf(sql.NullTime{})):        {field.TypeTime, true},
}

var basicTypes = map[string]field.Type{
	"bool":    field.TypeBool,
	"string":  field.TypeString,
	"[]byte":  field.TypeBytes,
	"int":     field.TypeInt,
	"int8":    field.TypeInt8,
	"int16":   field.TypeInt16,
	"int32":   field.TypeInt32,
	"int64":   field.TypeInt64,
	"uint":    field.TypeUint,
	"uint8":   field.TypeUint8,
	"uint16":  field.TypeUint16,
	"uint32":  field.TypeUint32,
	"uint64":  field.TypeUint64,
	"float32": field.TypeFloat32,
	"float64": field.TypeFloat64,
}

// columnType maps the Go type of a non-reference field to its column type.
// Maps and slices of values are stored as JSON.
func columnType(ref *load.TypeRef) (typ field.Type, nullable bool, err error) {
	if !ref.Slice {
		if kt, ok := knownTypes[ref.Ident]; ok {
			return kt.typ, kt.nullable || ref.Pointer, nil
		}
	}
	switch {
	case ref.Map, ref.Slice:
		return field.TypeJSON, ref.Pointer, nil
	case ref.Basic != "":
		if t, ok := basicTypes[ref.Basic]; ok {
			return t, ref.Pointer, nil
		}
	}
	return field.TypeInvalid, false, fmt.Errorf("unsupported field type %s", ref)
}
