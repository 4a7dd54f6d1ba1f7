package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/ddlexport/schema/field"
)

func TestTypeString(t *testing.T) {
	typ := field.TypeBool
	assert.Equal(t, "bool", typ.String())
	typ = field.TypeInvalid
	assert.Equal(t, "invalid", typ.String())
	typ = 22
	assert.Equal(t, "invalid", typ.String())
	assert.Equal(t, "time.Time", field.TypeTime.String())
}

func TestTypeNumeric(t *testing.T) {
	typ := field.TypeBool
	assert.False(t, typ.Numeric())
	typ = field.TypeUint8
	assert.True(t, typ.Numeric())
	assert.True(t, field.TypeDecimal.Numeric())
	assert.False(t, field.TypeDecimal.Integer())
	assert.True(t, field.TypeInt64.Integer())
}

func TestTypeUnsigned(t *testing.T) {
	assert.True(t, field.TypeUint.Unsigned())
	assert.True(t, field.TypeUint64.Unsigned())
	assert.False(t, field.TypeInt64.Unsigned())
	assert.False(t, field.TypeFloat64.Unsigned())
}

func TestTypeValid(t *testing.T) {
	typ := field.TypeBool
	assert.True(t, typ.Valid())
	typ = 0
	assert.False(t, typ.Valid())
	typ = 22
	assert.False(t, typ.Valid())
}

func TestTypeNames(t *testing.T) {
	seen := make(map[string]field.Type)
	for typ := field.TypeBool; typ.Valid(); typ++ {
		name := typ.String()
		prev, ok := seen[name]
		assert.False(t, ok, "%d and %d share the name %q", prev, typ, name)
		seen[name] = typ
	}
	assert.Equal(t, "string", field.TypeString.String())
	assert.Equal(t, "decimal.Decimal", field.TypeDecimal.String())
}
