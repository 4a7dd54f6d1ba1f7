package schema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/ddlexport/dialect"
)

// noQualifier plans statements with unqualified table names.
var noQualifier migrate.PlanOption = func(o *migrate.PlanOptions) {
	q := ""
	o.SchemaQualifier = &q
}

// Planner plans the create and drop scripts of a set of tables for one dialect.
type Planner struct {
	profile *dialect.Profile
	realm   *realm
}

// NewPlanner converts the tables for the given dialect profile. Tables are
// ordered by their foreign key dependencies; independent tables keep a stable
// order by name.
func NewPlanner(p *dialect.Profile, tables []*Table) (*Planner, error) {
	if p == nil {
		return nil, fmt.Errorf("sql/schema: missing dialect profile")
	}
	r, err := toAtlas(p, tables)
	if err != nil {
		return nil, fmt.Errorf("sql/schema: %w", err)
	}
	return &Planner{profile: p, realm: r}, nil
}

// Create returns the statements creating all tables, their indexes and
// constraints. Foreign keys that close a dependency cycle are added with
// ALTER TABLE once every table exists.
func (p *Planner) Create(ctx context.Context) ([]string, error) {
	changes := make([]schema.Change, 0, len(p.realm.tables)+len(p.realm.detached))
	for _, t := range p.realm.tables {
		changes = append(changes, &schema.AddTable{T: t})
	}
	for _, fk := range p.realm.detached {
		changes = append(changes, &schema.ModifyTable{
			T:       fk.Table,
			Changes: []schema.Change{&schema.AddForeignKey{F: fk}},
		})
	}
	return p.plan(ctx, "create", changes)
}

// Drop returns the statements dropping all tables in reverse creation order.
// Foreign keys that close a dependency cycle are dropped first.
func (p *Planner) Drop(ctx context.Context) ([]string, error) {
	changes := make([]schema.Change, 0, len(p.realm.tables)+len(p.realm.detached))
	for _, fk := range p.realm.detached {
		changes = append(changes, &schema.ModifyTable{
			T:       fk.Table,
			Changes: []schema.Change{&schema.DropForeignKey{F: fk}},
		})
	}
	for i := len(p.realm.tables) - 1; i >= 0; i-- {
		changes = append(changes, &schema.DropTable{
			T:     p.realm.tables[i],
			Extra: []schema.Clause{&schema.IfExists{}},
		})
	}
	return p.plan(ctx, "drop", changes)
}

func (p *Planner) plan(ctx context.Context, name string, changes []schema.Change) ([]string, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	plan, err := p.profile.Planner.PlanChanges(ctx, name, changes, noQualifier)
	if err != nil {
		return nil, fmt.Errorf("sql/schema: plan %s changes for %s: %w", name, p.profile.Name, err)
	}
	stmts := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts, nil
}

// Dump returns the create and drop statements of the tables for the given
// dialect identifier.
func Dump(ctx context.Context, dialectName string, tables []*Table) (create, drop []string, err error) {
	p, err := dialect.Resolve(dialectName)
	if err != nil {
		return nil, nil, err
	}
	pl, err := NewPlanner(p, tables)
	if err != nil {
		return nil, nil, err
	}
	if create, err = pl.Create(ctx); err != nil {
		return nil, nil, err
	}
	if drop, err = pl.Drop(ctx); err != nil {
		return nil, nil, err
	}
	return create, drop, nil
}
