package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}

	if len(t.Columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: "table has no columns",
		})
	}

	// Check for primary key
	if len(t.PrimaryKey) == 0 {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	// Check for duplicate column names
	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
		if c.Increment && !c.Type.Integer() && c.SchemaType == "" {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: fmt.Sprintf("auto increment requires an integer column, got %s", c.Type),
			})
		}
	}

	// Check for duplicate index names
	idxNames := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idxNames[idx.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate index name: %s", idx.Name),
			})
		}
		idxNames[idx.Name] = true

		// Check that index columns exist
		for _, col := range idx.Columns {
			if col != nil && !colNames[col.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("index %q references non-existent column %q", idx.Name, col.Name),
				})
			}
		}
	}

	// Check foreign keys
	for _, fk := range t.ForeignKeys {
		// Check that FK columns exist
		for _, col := range fk.Columns {
			if !colNames[col.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent column %q", col.Name),
				})
			}
		}
		if fk.RefTable != nil && len(fk.RefColumns) != len(fk.Columns) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key %q has %d columns but references %d", fk.Symbol, len(fk.Columns), len(fk.RefColumns)),
			})
		}
	}

	return result
}

// ValidateSchema validates all tables in a schema.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}

	tableNames := make(map[string]bool)
	for _, t := range tables {
		// Check for duplicate table names
		if tableNames[t.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		tableNames[t.Name] = true

		// Validate individual table
		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}

	// Index and constraint names share one namespace per schema in PostgreSQL and SQLite.
	symbols := make(map[string]string)
	for _, t := range tables {
		for _, idx := range t.Indexes {
			if owner, ok := symbols[idx.Name]; ok && owner != t.Name {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("index name %q is also used by table %q", idx.Name, owner),
				})
				continue
			}
			symbols[idx.Name] = t.Name
		}
	}

	// Validate foreign key references
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			switch {
			case fk.RefTable == nil:
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %q has no referenced table", fk.Symbol),
				})
			case !tableNames[fk.RefTable.Name]:
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent table %q", fk.RefTable.Name),
				})
			}
		}
	}

	return result
}
