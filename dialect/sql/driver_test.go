package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ddlexport/dialect"
)

func TestDriverName(t *testing.T) {
	tests := map[string]string{
		"mysql":          "mysql",
		"MariaDBDialect": "mysql",
		"org.hibernate.dialect.PostgreSQLDialect": "postgres",
		"sqlite3": "sqlite",
	}
	for id, want := range tests {
		got, err := DriverName(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	_, err := DriverName("GenericSqlDialect")
	assert.ErrorContains(t, err, "no database driver")
	_, err = DriverName("Oracle10gDialect")
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
}

func TestOpen(t *testing.T) {
	drv, err := Open(context.Background(), "SQLiteDialect", "file:open?mode=memory")
	require.NoError(t, err)
	defer drv.Close()
	assert.Equal(t, dialect.SQLite, drv.Dialect())
	require.NoError(t, drv.Exec(context.Background(), "CREATE TABLE t (id integer)"))
	assert.ErrorContains(t, drv.Exec(context.Background(), "CREATE TABLE t (id integer)"), "dialect/sql: exec")
}

func TestDriver_Exec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.Postgres, db)

	mock.ExpectExec(`CREATE TABLE "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE "t"`).WillReturnError(errors.New("boom"))
	require.NoError(t, drv.Exec(context.Background(), `CREATE TABLE "t" ("id" bigint)`))
	err = drv.Exec(context.Background(), `DROP TABLE "t"`)
	assert.ErrorContains(t, err, "boom")

	mock.ExpectClose()
	require.NoError(t, drv.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
