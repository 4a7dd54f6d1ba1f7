package load

import "strings"

// Marker identifies the mapping markers carried by a type.
type Marker uint8

// Mapping markers.
const (
	MarkerEntity           Marker = 1 << iota // //ddl:entity
	MarkerMappedSuperclass                    // //ddl:mapped-superclass
)

// Is reports whether m carries all markers of x.
func (m Marker) Is(x Marker) bool { return x != 0 && m&x == x }

// String returns the directive names of the markers joined by "+".
func (m Marker) String() string {
	var names []string
	if m.Is(MarkerEntity) {
		names = append(names, "entity")
	}
	if m.Is(MarkerMappedSuperclass) {
		names = append(names, "mapped-superclass")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// Entity is a struct type found under the namespace that carries at least one
// mapping marker.
type Entity struct {
	// Name is the fully-qualified name of the type: "<import path>.<Type>".
	Name    string
	Package string
	Type    string
	Marker  Marker
	// Table is the table name given with "//ddl:entity table=<name>".
	Table  string
	Pos    string
	Fields []*Field
}

// IsEntity reports whether the type is mapped to its own table.
func (e *Entity) IsEntity() bool { return e.Marker.Is(MarkerEntity) }

// IsMappedSuperclass reports whether the type only contributes fields to the
// entities that embed it.
func (e *Entity) IsMappedSuperclass() bool {
	return e.Marker.Is(MarkerMappedSuperclass) && !e.IsEntity()
}

// Field is a struct field of an entity.
type Field struct {
	Name     string
	Type     *TypeRef
	Tag      string // value of the "ddl" struct tag
	Embedded bool
	Exported bool
	Pos      string
}

// Skipped reports whether the field is excluded from mapping with `ddl:"-"`.
func (f *Field) Skipped() bool { return f.Tag == "-" }

// TypeRef describes the Go type of a field. Pointer and slice wrappers are
// recorded as flags around the element type named by Ident.
type TypeRef struct {
	// Ident is the element type qualified by its import path,
	// e.g. "string", "time.Time" or "example.com/shop/entity.Order".
	Ident string
	// Basic is the name of the underlying basic type, or "[]byte" for
	// byte slices. Empty for composite types.
	Basic   string
	Pointer bool
	Slice   bool
	Map     bool
	Struct  bool
}

// String returns the Go spelling of the type.
func (t *TypeRef) String() string {
	var b strings.Builder
	if t.Slice {
		b.WriteString("[]")
	}
	if t.Pointer {
		b.WriteByte('*')
	}
	b.WriteString(t.Ident)
	return b.String()
}
