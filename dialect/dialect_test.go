package dialect

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"mysql", MySQL},
		{"MySQL", MySQL},
		{"org.hibernate.dialect.MySQL8Dialect", MySQL},
		{"MariaDBDialect", MySQL},
		{"postgres", Postgres},
		{"PostgreSQL", Postgres},
		{"org.hibernate.dialect.PostgreSQLDialect", Postgres},
		{"sqlite3", SQLite},
		{"SQLiteDialect", SQLite},
		{"GenericSqlDialect", Generic},
		{" ansi ", Generic},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
			assert.NotNil(t, p.Planner)
			assert.NotNil(t, p.ParseType)
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, id := range []string{"", "oracle", "org.hibernate.dialect.HSQLDialect", "org.hibernate.dialect."} {
		p, err := Resolve(id)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownDialect), id)
		assert.True(t, strings.HasPrefix(err.Error(), "dialect: unknown dialect"), err.Error())
	}
}

func TestResolve_InlineCycles(t *testing.T) {
	p, err := Resolve(SQLite)
	require.NoError(t, err)
	assert.True(t, p.InlineCycles)
	p, err = Resolve(Postgres)
	require.NoError(t, err)
	assert.False(t, p.InlineCycles)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{Generic, MySQL, Postgres, SQLite}, Names())
}
