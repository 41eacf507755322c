package engine

import (
	"context"
	"fmt"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/pathplan"
	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/resolve"
)

// assembly accumulates the explanation trail and warnings of one request.
type assembly struct {
	engine      *Engine
	explanation []string
	warnings    []queryir.Warning
}

func (a *assembly) explain(format string, args ...any) {
	a.explanation = append(a.explanation, fmt.Sprintf(format, args...))
}

func (a *assembly) warn(code, message string) {
	w := queryir.Warning{Code: code, Message: message}
	a.warnings = append(a.warnings, w)
	a.explanation = append(a.explanation, "warning "+w.String())
}

func (a *assembly) addWarnings(ws []queryir.Warning) {
	for _, w := range ws {
		a.warn(w.Code, w.Message)
	}
}

func (a *assembly) explainBindings(b resolve.Bindings) {
	for _, eb := range b.Entities {
		a.explain("entity %q -> %s (%s)", eb.Token, eb.Table, eb.Score)
	}
	for _, v := range b.Values {
		a.explain("value %q -> %s = %q (%s, %s)", v.Token, ir.Qualify(v.Table, v.Column), v.Value, v.Kind, v.Score)
	}
	for _, n := range b.Negations {
		a.explain("negation %q -> %s (concept %s)", n.Pattern, n.Table, n.Concept)
	}
	for _, t := range b.Temporal {
		a.explain("time window %q -> %s", t.Token, t.Window)
		if t.Coerced {
			a.warn(queryir.WarnTimeWindowCoerced,
				fmt.Sprintf("absolute window %q approximated as %s", t.Token, t.Window))
		}
	}
}

// build plans joins, filters and the select column around anchor, then
// validates the result.
func (a *assembly) build(ctx context.Context, anchor string, b resolve.Bindings) (*queryir.QueryPlan, error) {
	e := a.engine

	inner := e.adapter.Plan(ctx, anchor, innerTargets(anchor, b), queryir.JoinInner, nil)
	a.addWarnings(inner.Warnings)
	if inner.Degraded && e.strictJoins {
		details := make([]string, 0, len(inner.Warnings))
		for _, w := range inner.Warnings {
			details = append(details, w.Message)
		}
		return nil, &PlanError{
			Code:     ErrCodePathPlanning,
			Stage:    StagePathPlan,
			Message:  fmt.Sprintf("required joins from %s could not be planned faithfully", anchor),
			Details:  details,
			Warnings: a.warnings,
		}
	}

	joins := append([]queryir.JoinSpec(nil), inner.Joins...)
	planned := make(map[string]bool, len(joins))
	for _, j := range joins {
		planned[j.TargetTable] = true
	}
	for _, table := range negatedTables(anchor, b) {
		left := e.adapter.Plan(ctx, anchor, []pathplan.Target{{Table: table}}, queryir.JoinLeft, planned)
		a.addWarnings(left.Warnings)
		for _, j := range left.Joins {
			planned[j.TargetTable] = true
		}
		joins = append(joins, left.Joins...)
	}
	for _, j := range joins {
		a.explain("join %s", j)
	}

	plan := &queryir.QueryPlan{
		Distinct: true,
		From:     anchor,
		RowGrain: anchor,
		Joins:    joins,
		Filters:  a.filters(anchor, b),
		Select:   []queryir.SelectColumn{e.selectColumn(anchor)},
		Source:   queryir.SourceSemanticPlanner,
	}
	plan.Explanation = a.explanation
	plan.Warnings = a.warnings

	if errs := queryir.Validate(plan); len(errs) > 0 {
		details := make([]string, len(errs))
		for i, ve := range errs {
			details[i] = ve.Error()
		}
		e.logger.Warn("assembled plan failed validation", "from", anchor, "errors", len(errs))
		return nil, &PlanError{
			Code:     ErrCodeInconsistentPlan,
			Stage:    StageValidate,
			Message:  fmt.Sprintf("plan anchored at %s is inconsistent", anchor),
			Details:  append(details, a.explanation...),
			Warnings: a.warnings,
			Err:      queryir.ValidationErrors(errs),
		}
	}
	return plan, nil
}

// filters builds value filters, then time-range filters bound to the
// anchor's date column, then negation filters on the negated table's key.
func (a *assembly) filters(anchor string, b resolve.Bindings) []queryir.Filter {
	e := a.engine
	out := make([]queryir.Filter, 0, len(b.Values)+len(b.Temporal)+len(b.Negations))
	for _, v := range b.Values {
		out = append(out, &queryir.ValueFilter{
			TableName:  v.Table,
			Column:     v.Column,
			Values:     []string{v.Value},
			Resolution: v.Kind,
			Confidence: v.Score,
			Token:      v.Token,
		})
	}
	dateColumn := e.planner.DateColumn(anchor)
	for _, t := range b.Temporal {
		out = append(out, &queryir.TimeRangeFilter{
			TableName: anchor,
			Column:    dateColumn,
			Window:    t.Window,
			Token:     t.Token,
		})
	}
	for _, n := range b.Negations {
		out = append(out, &queryir.NegationFilter{
			TableName: n.Table,
			KeyColumn: resolve.PrimaryKey(e.schema, n.Table, e.planner.KeyOverrides),
			Concept:   n.Concept,
			Pattern:   n.Pattern,
		})
	}
	return out
}

// selectColumn is the anchor's primary key, aliased by
// planner.select_aliases or <TABLE>_ID.
func (e *Engine) selectColumn(anchor string) queryir.SelectColumn {
	alias, ok := e.planner.SelectAliases[anchor]
	if !ok || alias == "" {
		alias = anchor + "_ID"
	}
	return queryir.SelectColumn{
		Table:  anchor,
		Column: resolve.PrimaryKey(e.schema, anchor, e.planner.KeyOverrides),
		Alias:  alias,
	}
}

// innerTargets lists entity tables then value tables, first appearance
// order, without the anchor. Value columns are attached to their table.
func innerTargets(anchor string, b resolve.Bindings) []pathplan.Target {
	var targets []pathplan.Target
	index := make(map[string]int)
	add := func(table, column string) {
		if table == anchor {
			return
		}
		i, ok := index[table]
		if !ok {
			index[table] = len(targets)
			targets = append(targets, pathplan.Target{Table: table})
			i = len(targets) - 1
		}
		if column == "" {
			return
		}
		for _, c := range targets[i].Columns {
			if c == column {
				return
			}
		}
		targets[i].Columns = append(targets[i].Columns, column)
	}
	for _, eb := range b.Entities {
		add(eb.Table, "")
	}
	for _, v := range b.Values {
		add(v.Table, v.Column)
	}
	return targets
}

// negatedTables lists distinct negated tables other than the anchor.
func negatedTables(anchor string, b resolve.Bindings) []string {
	var out []string
	seen := map[string]bool{anchor: true}
	for _, n := range b.Negations {
		if !seen[n.Table] {
			seen[n.Table] = true
			out = append(out, n.Table)
		}
	}
	return out
}
