package gen

import (
	"context"
	"fmt"

	"github.com/syssam/ddlexport/dialect"
	"github.com/syssam/ddlexport/dialect/sql/schema"
)

// ScriptKind selects one of the two generated scripts.
type ScriptKind string

// Script kinds.
const (
	CreateScript ScriptKind = "create"
	DropScript   ScriptKind = "drop"
)

// Script is an ordered list of DDL statements, without terminators.
type Script struct {
	Kind       ScriptKind
	Dialect    string
	Statements []string
}

// Empty reports whether the script has no statements.
func (s *Script) Empty() bool { return s == nil || len(s.Statements) == 0 }

// Generate plans the requested scripts for the tables of the graph. The
// dialect is resolved first; an unknown dialect fails before any planning.
// A requested script without statements is an error.
func Generate(ctx context.Context, g *Graph, kinds ...ScriptKind) (map[ScriptKind]*Script, error) {
	p, err := dialect.Resolve(g.Config.Dialect)
	if err != nil {
		return nil, &ConfigError{Option: "Dialect", Value: g.Config.Dialect, Cause: err}
	}
	for _, k := range kinds {
		if k != CreateScript && k != DropScript {
			return nil, NewConfigError("ScriptKind", string(k), "unknown script kind; use create or drop")
		}
	}
	if len(kinds) == 0 {
		return map[ScriptKind]*Script{}, nil
	}
	tables, err := g.Tables()
	if err != nil {
		return nil, err
	}
	planner, err := schema.NewPlanner(p, tables)
	if err != nil {
		return nil, NewGenerationError("plan", "", "convert tables", err)
	}
	scripts := make(map[ScriptKind]*Script, len(kinds))
	for _, k := range kinds {
		if _, ok := scripts[k]; ok {
			continue
		}
		var stmts []string
		switch k {
		case CreateScript:
			stmts, err = planner.Create(ctx)
		case DropScript:
			stmts, err = planner.Drop(ctx)
		}
		if err != nil {
			return nil, NewGenerationError(string(k), "", "planning failed", err)
		}
		s := &Script{Kind: k, Dialect: p.Name, Statements: stmts}
		if s.Empty() {
			return nil, NewGenerationError(string(k), "", fmt.Sprintf("No %s sql generated", k), nil)
		}
		g.logger().Debug("planned script", "kind", k, "dialect", p.Name, "statements", len(stmts))
		scripts[k] = s
	}
	return scripts, nil
}
