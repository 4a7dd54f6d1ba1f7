// Package dialect resolves SQL dialect identifiers to the profiles used for
// DDL generation.
//
// # Supported Dialects
//
//   - mysql: MySQL/MariaDB
//   - postgres: PostgreSQL
//   - sqlite: SQLite
//   - generic: ANSI-quoted DDL with portable column types
//
// Identifiers are matched case-insensitively and may use Hibernate style names,
// so the following all resolve to the same profile:
//
//	dialect.Resolve("postgres")
//	dialect.Resolve("PostgreSQLDialect")
//	dialect.Resolve("org.hibernate.dialect.PostgreSQLDialect")
//
// # Profiles
//
// A Profile carries the atlas plan applier that renders schema changes for the
// database product and the parser for raw column types:
//
//	p, err := dialect.Resolve(id)
//	if err != nil {
//	    return err // errors.Is(err, dialect.ErrUnknownDialect)
//	}
//	plan, err := p.Planner.PlanChanges(ctx, "create", changes)
//
// # Sub-packages
//
//   - dialect/sql/schema: dialect-neutral tables and create/drop planning
//   - dialect/sql/sqlfmt: DDL pretty printing
//   - dialect/sql: script verification on a database
package dialect
