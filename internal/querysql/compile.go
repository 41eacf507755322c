package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/queryir"
)

// SQLCompiler renders a QueryPlan as parameterized SQLite SQL.
//
// Every query ends in ORDER BY on the selected key so results are
// deterministic. Filter values and window modifiers are always bound as
// parameters, never interpolated. Table and column names come from the
// plan and must be plain identifiers; join predicates come from schema
// configuration and are emitted as written.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a plan to SQL. Returns (sql, params, error).
// The plan is validated first; an inconsistent plan is not rendered.
func (c *SQLCompiler) Compile(plan *queryir.QueryPlan) (string, []any, error) {
	if plan == nil {
		return "", nil, fmt.Errorf("cannot compile nil plan")
	}
	if errs := queryir.Validate(plan); len(errs) > 0 {
		return "", nil, fmt.Errorf("invalid plan: %w", queryir.ValidationErrors(errs))
	}
	if err := checkIdentifiers(plan); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if plan.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(c.compileSelect(plan.Select))
	b.WriteString(" FROM ")
	b.WriteString(plan.From)

	for _, j := range plan.Joins {
		b.WriteString(c.compileJoin(j))
	}

	var params []any
	if len(plan.Filters) > 0 {
		parts := make([]string, 0, len(plan.Filters))
		for i, f := range plan.Filters {
			sql, p, err := c.compileFilter(f)
			if err != nil {
				return "", nil, fmt.Errorf("filters[%d]: %w", i, err)
			}
			parts = append(parts, sql)
			params = append(params, p...)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}

	// MANDATORY: deterministic order on the selected key
	b.WriteString(" ORDER BY ")
	b.WriteString(c.stableOrderKey(plan))

	return b.String(), params, nil
}

// compileSelect renders "T.C AS alias" for each select column.
func (c *SQLCompiler) compileSelect(cols []queryir.SelectColumn) string {
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		ref := ir.Qualify(col.Table, col.Column)
		if col.Alias == "" || col.Alias == col.Column {
			parts = append(parts, ref)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", ref, col.Alias))
	}
	return strings.Join(parts, ", ")
}

func (c *SQLCompiler) compileJoin(j queryir.JoinSpec) string {
	kw := "INNER JOIN"
	if j.JoinType == queryir.JoinLeft {
		kw = "LEFT JOIN"
	}
	return fmt.Sprintf(" %s %s ON %s", kw, j.TargetTable, j.Predicate)
}

// stableOrderKey orders by the first select column.
// COLLATE BINARY keeps text keys ordered identically across SQLite versions.
func (c *SQLCompiler) stableOrderKey(plan *queryir.QueryPlan) string {
	col := plan.Select[0]
	return ir.Qualify(col.Table, col.Column) + " COLLATE BINARY ASC"
}

// compileFilter renders one filter. Values are NEVER interpolated.
func (c *SQLCompiler) compileFilter(f queryir.Filter) (string, []any, error) {
	switch filter := f.(type) {
	case *queryir.ValueFilter:
		return c.compileValue(filter)
	case *queryir.TimeRangeFilter:
		return c.compileTimeRange(filter)
	case *queryir.NegationFilter:
		return ir.Qualify(filter.TableName, filter.KeyColumn) + " IS NULL", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported filter type: %T", f)
	}
}

// compileValue renders "T.C IN (?, ?)".
func (c *SQLCompiler) compileValue(f *queryir.ValueFilter) (string, []any, error) {
	if len(f.Values) == 0 {
		return "", nil, fmt.Errorf("value filter on %s has no values", ir.Qualify(f.TableName, f.Column))
	}
	marks := make([]string, len(f.Values))
	params := make([]any, len(f.Values))
	for i, v := range f.Values {
		marks[i] = "?"
		params[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", ir.Qualify(f.TableName, f.Column), strings.Join(marks, ", ")), params, nil
}

// compileTimeRange renders a relative window as a BETWEEN on date('now').
// Past windows run from now-N to now, future windows from now to now+N.
func (c *SQLCompiler) compileTimeRange(f *queryir.TimeRangeFilter) (string, []any, error) {
	mod, err := DateModifier(f.Window)
	if err != nil {
		return "", nil, err
	}
	col := ir.Qualify(f.TableName, f.Column)
	if f.Window.Direction == ir.DirectionFuture {
		return col + " BETWEEN date('now') AND date('now', ?)", []any{mod}, nil
	}
	return col + " BETWEEN date('now', ?) AND date('now')", []any{mod}, nil
}

// DateModifier converts a window to an SQLite date modifier such as
// "-3 months". SQLite has no week or quarter modifier, so weeks become
// days and quarters become months.
func DateModifier(w ir.RelativeWindow) (string, error) {
	if w.Value <= 0 {
		return "", fmt.Errorf("window value must be positive, got %d", w.Value)
	}
	n := w.Value
	var unit string
	switch w.Unit {
	case ir.UnitDay:
		unit = "days"
	case ir.UnitWeek:
		n, unit = n*7, "days"
	case ir.UnitMonth:
		unit = "months"
	case ir.UnitQuarter:
		n, unit = n*3, "months"
	case ir.UnitYear:
		unit = "years"
	default:
		return "", fmt.Errorf("unsupported window unit %q", w.Unit)
	}

	sign := "-"
	switch w.Direction {
	case ir.DirectionPast:
	case ir.DirectionFuture:
		sign = "+"
	default:
		return "", fmt.Errorf("unsupported window direction %q", w.Direction)
	}
	return fmt.Sprintf("%s%d %s", sign, n, unit), nil
}

// checkIdentifiers rejects table and column names that are not plain
// SQL identifiers.
func checkIdentifiers(plan *queryir.QueryPlan) error {
	names := []string{plan.From}
	for _, j := range plan.Joins {
		names = append(names, j.TargetTable)
	}
	for _, s := range plan.Select {
		names = append(names, s.Table, s.Column)
		if s.Alias != "" {
			names = append(names, s.Alias)
		}
	}
	for _, f := range plan.Filters {
		for _, ref := range f.AppliesTo() {
			t, col, ok := ir.SplitQualified(ref)
			if !ok {
				return fmt.Errorf("malformed column reference %q", ref)
			}
			names = append(names, t, col)
		}
	}
	for _, n := range names {
		if !isIdentifier(n) {
			return fmt.Errorf("%q is not a valid SQL identifier", n)
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
