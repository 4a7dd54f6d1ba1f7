// Package field defines the column kinds Go struct fields are mapped to.
//
// The kind of a field is derived from its Go type when the entity graph is
// built. Well-known library types get a dedicated kind:
//
//	time.Time          TypeTime
//	uuid.UUID          TypeUUID
//	decimal.Decimal    TypeDecimal
//	json.RawMessage    TypeJSON
//	[]byte             TypeBytes
//
// Maps and slices of other types are stored as JSON. Named types keep the kind
// of their underlying basic type, so
//
//	type Status string
//
// is mapped like a string.
package field
