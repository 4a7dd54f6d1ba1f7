package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Drivers of the dialects scripts can be verified against.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/ddlexport/dialect"
)

// driverNames maps canonical dialect names to registered database/sql drivers.
var driverNames = map[string]string{
	dialect.MySQL:    "mysql",
	dialect.Postgres: "postgres",
	dialect.SQLite:   "sqlite",
}

// DriverName returns the database/sql driver used for the given dialect
// identifier. The generic dialect has no database to run on.
func DriverName(id string) (string, error) {
	p, err := dialect.Resolve(id)
	if err != nil {
		return "", err
	}
	name, ok := driverNames[p.Name]
	if !ok {
		return "", fmt.Errorf("dialect/sql: no database driver for dialect %q", p.Name)
	}
	return name, nil
}

func dialectOf(driverName string) string {
	for d, n := range driverNames {
		if n == driverName {
			return d
		}
	}
	return driverName
}

// Execer wraps the ExecContext method of *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Driver executes statements on a database connection of one dialect.
type Driver struct {
	Execer
	dialect string
}

// Open resolves the dialect identifier and opens a connection to source.
// The connection is verified with a ping. Statements run on a single
// connection, so an in-memory SQLite database keeps its tables between them.
func Open(ctx context.Context, id, source string) (*Driver, error) {
	name, err := DriverName(id)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", name, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("dialect/sql: ping %s: %w", name, errors.Join(err, db.Close()))
	}
	return OpenDB(dialectOf(name), db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{Execer: db, dialect: dialect}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.Execer.(*sql.DB)
}

// Dialect returns the canonical dialect name of the connection.
func (d *Driver) Dialect() string { return d.dialect }

// Exec executes a single statement without arguments.
func (d *Driver) Exec(ctx context.Context, stmt string) error {
	if _, err := d.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }
