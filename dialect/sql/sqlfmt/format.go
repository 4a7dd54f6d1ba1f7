// Package sqlfmt pretty prints DDL statements for human readable scripts.
package sqlfmt

import (
	"strings"
)

// A Formatter formats a single SQL statement. Formatting a statement does not
// depend on the statements formatted before it.
type Formatter interface {
	Format(stmt string) string
}

// The FormatterFunc type is an adapter to allow the use of ordinary functions as Formatter.
type FormatterFunc func(string) string

// Format calls f(stmt).
func (f FormatterFunc) Format(stmt string) string { return f(stmt) }

// DefaultIndent is the indentation of column definitions and ALTER TABLE clauses.
const DefaultIndent = "    "

var (
	// None returns statements as they are, without surrounding whitespace.
	None Formatter = FormatterFunc(strings.TrimSpace)
	// DDL lays out CREATE TABLE definitions one per line and ALTER TABLE clauses
	// on their own indented line.
	DDL Formatter = NewDDL(DefaultIndent)
)

// NewDDL returns a DDL formatter using the given indentation.
func NewDDL(indent string) Formatter {
	return &ddl{indent: indent}
}

type ddl struct {
	indent string
}

func (f *ddl) Format(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	switch {
	case hasPrefixFold(stmt, "create table"):
		return f.createTable(stmt)
	case hasPrefixFold(stmt, "alter table"):
		return f.alterTable(stmt)
	default:
		return stmt
	}
}

// createTable breaks the column and constraint list onto separate lines.
func (f *ddl) createTable(stmt string) string {
	open := indexTopLevel(stmt, '(', 0)
	if open < 0 {
		return stmt
	}
	end := matchingParen(stmt, open)
	if end < 0 {
		return stmt
	}
	defs := splitTopLevel(stmt[open+1:end], ',')
	var b strings.Builder
	b.WriteString(strings.TrimRight(stmt[:open], " "))
	b.WriteString(" (\n")
	for i, d := range defs {
		b.WriteString(f.indent)
		b.WriteString(d)
		if i < len(defs)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteByte(')')
	if rest := strings.TrimSpace(stmt[end+1:]); rest != "" {
		b.WriteByte(' ')
		b.WriteString(rest)
	}
	return b.String()
}

// alterTable moves every clause after the table name onto its own line.
func (f *ddl) alterTable(stmt string) string {
	i := skipSpace(stmt, len("alter table"))
	if hasPrefixFold(stmt[i:], "if exists") {
		i = skipSpace(stmt, i+len("if exists"))
	}
	if hasPrefixFold(stmt[i:], "only") {
		i = skipSpace(stmt, i+len("only"))
	}
	end := skipIdent(stmt, i)
	if end <= i || end >= len(stmt) {
		return stmt
	}
	clauses := splitTopLevel(stmt[end:], ',')
	if len(clauses) == 0 {
		return stmt
	}
	var b strings.Builder
	b.WriteString(stmt[:end])
	for n, c := range clauses {
		b.WriteByte('\n')
		b.WriteString(f.indent)
		b.WriteString(c)
		if n < len(clauses)-1 {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

// skipIdent returns the index after the (possibly quoted and qualified) identifier at i.
func skipIdent(s string, i int) int {
	for i < len(s) {
		if q := s[i]; isQuote(q) {
			j := closingQuote(s, i)
			if j < 0 {
				return len(s)
			}
			i = j + 1
		} else {
			for i < len(s) && s[i] != ' ' && s[i] != '.' && s[i] != '(' && !isQuote(s[i]) {
				i++
			}
		}
		if i >= len(s) || s[i] != '.' {
			return i
		}
		i++
	}
	return i
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

// closingQuote returns the index of the quote closing the one at i.
// Doubled quotes inside the literal are escapes.
func closingQuote(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == '\\' && q == '\'':
			j++
		case s[j] == q && j+1 < len(s) && s[j+1] == q:
			j++
		case s[j] == q:
			return j
		}
	}
	return -1
}

// indexTopLevel returns the index of the first c at parenthesis depth zero
// outside of quotes, starting at from.
func indexTopLevel(s string, c byte, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch ch := s[i]; {
		case isQuote(ch):
			j := closingQuote(s, i)
			if j < 0 {
				return -1
			}
			i = j
		case ch == c && depth == 0:
			return i
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		}
	}
	return -1
}

// matchingParen returns the index of the parenthesis closing the one at open.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch ch := s[i]; {
		case isQuote(ch):
			j := closingQuote(s, i)
			if j < 0 {
				return -1
			}
			i = j
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on sep at parenthesis depth zero outside of quotes,
// trimming the parts and dropping empty ones.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		start int
	)
	for {
		i := indexTopLevel(s, sep, start)
		if i < 0 {
			break
		}
		parts = appendPart(parts, s[start:i])
		start = i + 1
	}
	return appendPart(parts, s[start:])
}

func appendPart(parts []string, p string) []string {
	if p = strings.TrimSpace(p); p != "" {
		parts = append(parts, p)
	}
	return parts
}
