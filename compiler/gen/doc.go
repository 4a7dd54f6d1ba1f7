// Package gen maps the entities found by the loader to tables and generates
// the create and drop scripts of a schema.
//
// # Architecture
//
// A run follows this flow:
//
//	load.Entity (marked struct types)
//	        ↓
//	   Graph (mapped types, fields and references)
//	        ↓
//	   []*schema.Table (dialect-neutral, validated)
//	        ↓
//	   Script (statements planned by atlas for the dialect)
//	        ↓
//	   Writer (create.sql, drop.sql)
//
// # Key Types
//
//   - Config: settings of a run, from functional options or a YAML file
//   - Graph: the entities of a run with their mapped fields
//   - Type: an entity mapped to one table
//   - Field: a column, or a reference to another entity
//   - Script: the ordered statements of one script kind
//   - Writer: writes scripts with a statement delimiter and formatter
//
// # Mapping
//
// Exported fields map to columns. Struct tags refine the mapping:
//
//	type Order struct {
//	    Base                                      // mapped superclass, flattened
//	    Customer *Customer `ddl:"notnull,ondelete=cascade"` // Customer_ID column
//	    Items    []*LineItem                      // inverse side, no column
//	    Total    decimal.Decimal `ddl:"precision=12,scale=2"`
//	    Note     string          `ddl:"-"`
//	}
//
// # Error Handling
//
// Errors are typed and match a sentinel with errors.Is:
//
//	scripts, err := gen.Generate(ctx, g, gen.CreateScript, gen.DropScript)
//	switch {
//	case errors.Is(err, gen.ErrMissingConfig):
//	    // unknown dialect or missing settings
//	case errors.Is(err, gen.ErrGenerationFailed):
//	    // planning failed or a script came out empty
//	}
package gen
