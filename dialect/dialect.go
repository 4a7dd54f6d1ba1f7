package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
)

// Dialect names for the supported SQL profiles.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
	// Generic emits ANSI-quoted DDL with portable column types.
	Generic = "generic"
)

// ErrUnknownDialect is returned when a dialect identifier does not resolve to a profile.
var ErrUnknownDialect = errors.New("dialect: unknown dialect")

// hibernatePrefix is stripped from identifiers so Hibernate style class names resolve.
const hibernatePrefix = "org.hibernate.dialect."

// Profile describes the SQL syntax rules of one database product.
type Profile struct {
	// Name is the canonical dialect name (e.g. "postgres").
	Name string
	// Planner renders schema changes as SQL statements.
	Planner migrate.PlanApplier
	// ParseType parses a raw column type (e.g. "varchar(64)") in the dialect syntax.
	ParseType func(string) (schema.Type, error)
	// InlineCycles reports if foreign keys forming a cycle can be kept inside
	// CREATE TABLE. SQLite defers foreign key checks and cannot add constraints later.
	InlineCycles bool
}

var profiles = map[string]*Profile{
	MySQL: {
		Name:      MySQL,
		Planner:   mysql.DefaultPlan,
		ParseType: mysql.ParseType,
	},
	Postgres: {
		Name:      Postgres,
		Planner:   postgres.DefaultPlan,
		ParseType: postgres.ParseType,
	},
	SQLite: {
		Name:         SQLite,
		Planner:      sqlite.DefaultPlan,
		ParseType:    sqlite.ParseType,
		InlineCycles: true,
	},
	Generic: {
		Name:      Generic,
		Planner:   postgres.DefaultPlan,
		ParseType: postgres.ParseType,
	},
}

// aliases maps lower-cased identifiers to canonical names.
var aliases = map[string]string{
	"mysql":                MySQL,
	"mysqldialect":         MySQL,
	"mysql5dialect":        MySQL,
	"mysql57dialect":       MySQL,
	"mysql8dialect":        MySQL,
	"mysql5innodbdialect":  MySQL,
	"mysql57innodbdialect": MySQL,
	"mariadb":              MySQL,
	"mariadbdialect":       MySQL,
	"mariadb103dialect":    MySQL,
	"postgres":             Postgres,
	"postgresql":           Postgres,
	"pg":                   Postgres,
	"postgresqldialect":    Postgres,
	"postgresql9dialect":   Postgres,
	"postgresql95dialect":  Postgres,
	"postgresql10dialect":  Postgres,
	"postgresplusdialect":  Postgres,
	"sqlite":               SQLite,
	"sqlite3":              SQLite,
	"sqlitedialect":        SQLite,
	"generic":              Generic,
	"ansi":                 Generic,
	"genericsqldialect":    Generic,
	"ansisqldialect":       Generic,
}

// Resolve returns the profile registered for the given identifier. Matching is
// case-insensitive, and a leading "org.hibernate.dialect." package is ignored.
func Resolve(id string) (*Profile, error) {
	key := strings.TrimSpace(id)
	if len(key) >= len(hibernatePrefix) && strings.EqualFold(key[:len(hibernatePrefix)], hibernatePrefix) {
		key = key[len(hibernatePrefix):]
	}
	name, ok := aliases[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownDialect, id, strings.Join(Names(), ", "))
	}
	return profiles[name], nil
}

// Names returns the canonical dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
