package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// Naming strategies.
const (
	NamingExact       = "exact"        // table = type name, column = field name
	NamingSnake       = "snake"        // LineItem -> line_item, CreatedAt -> created_at
	NamingSnakePlural = "snake_plural" // LineItem -> line_items
)

// NamingStrategy derives table and column names from Go identifiers.
type NamingStrategy interface {
	TableName(typeName string) string
	ColumnName(fieldName string) string
	// ForeignKeyName names the column referencing the primary key column pk
	// of another table through the field column col.
	ForeignKeyName(col, pk string) string
}

// NamingStrategyOf returns the strategy registered under name.
// An empty name selects NamingExact.
func NamingStrategyOf(name string) (NamingStrategy, error) {
	switch name {
	case "", NamingExact:
		return exactNaming{}, nil
	case NamingSnake:
		return snakeNaming{}, nil
	case NamingSnakePlural:
		return snakeNaming{plural: true}, nil
	default:
		return nil, NewConfigError("Naming", name, "unknown naming strategy; use exact, snake or snake_plural")
	}
}

type exactNaming struct{}

func (exactNaming) TableName(s string) string            { return s }
func (exactNaming) ColumnName(s string) string           { return s }
func (exactNaming) ForeignKeyName(col, pk string) string { return col + "_" + pk }

type snakeNaming struct {
	plural bool
}

func (n snakeNaming) TableName(s string) string {
	if n.plural {
		return snake(rules.Pluralize(s))
	}
	return snake(s)
}

func (snakeNaming) ColumnName(s string) string { return snake(s) }

func (snakeNaming) ForeignKeyName(col, pk string) string { return col + "_" + snake(pk) }

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "HTML", "HTTP", "ID", "IP", "JSON", "SKU", "SQL", "TCP", "TLS", "UI", "URI", "URL", "UTF8", "UUID", "XML"} {
		rules.AddAcronym(w)
	}
	return rules
}

// snake converts the given identifier to snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
