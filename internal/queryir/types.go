package queryir

import (
	"fmt"

	"github.com/roach88/aivia/internal/ir"
)

// SourceSemanticPlanner tags plans produced by the synthesizer.
const SourceSemanticPlanner = "semantic_planner"

// JoinType is the SQL join flavour of a JoinSpec.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
)

// IsValid reports whether j is inner or left.
func (j JoinType) IsValid() bool {
	return j == JoinInner || j == JoinLeft
}

// JoinSpec is one join edge from SourceTable to TargetTable.
type JoinSpec struct {
	SourceTable string   `json:"source_table"`
	TargetTable string   `json:"target_table"`
	Predicate   string   `json:"predicate"`
	JoinType    JoinType `json:"join_type"`
}

// String renders the join for logs and explanations.
func (j JoinSpec) String() string {
	return fmt.Sprintf("%s JOIN %s -> %s ON %s", j.JoinType, j.SourceTable, j.TargetTable, j.Predicate)
}

// SelectColumn is one output column.
type SelectColumn struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Alias  string `json:"alias"`
}

// Filter kinds as they appear in plan JSON.
const (
	KindEquality  = "equality"
	KindCategory  = "category"
	KindTimeRange = "time_range"
	KindNegation  = "negation_filter"
)

// Filter is one plan filter.
//
// This is a sealed interface - only types in this package implement it.
type Filter interface {
	filterNode()

	// Kind is the filter kind tag (equality, category, time_range,
	// negation_filter).
	Kind() string

	// Table is the table the filter reads, used by the reachability check.
	Table() string

	// AppliesTo lists the qualified TABLE.COLUMN references tested.
	AppliesTo() []string
}

// ValueFilter restricts Column to a set of values (operator IN). It is an
// equality filter for concept-backed values and a category filter for
// lookup-table values.
type ValueFilter struct {
	TableName  string
	Column     string
	Values     []string
	Resolution ir.ValueKind
	Confidence ir.Score
	Token      string
}

func (*ValueFilter) filterNode() {}

// Kind returns equality or category by resolution kind.
func (f *ValueFilter) Kind() string {
	if f.Resolution == ir.ValueKindCategory {
		return KindCategory
	}
	return KindEquality
}

// Table returns the filtered table.
func (f *ValueFilter) Table() string { return f.TableName }

// AppliesTo returns TABLE.COLUMN.
func (f *ValueFilter) AppliesTo() []string {
	return []string{ir.Qualify(f.TableName, f.Column)}
}

// Operator is always IN over the value set.
func (f *ValueFilter) Operator() string { return "IN" }

// TimeRangeFilter restricts a date column to a window ending now.
type TimeRangeFilter struct {
	TableName string
	Column    string
	Window    ir.RelativeWindow
	Token     string
}

func (*TimeRangeFilter) filterNode() {}

// Kind returns time_range.
func (*TimeRangeFilter) Kind() string { return KindTimeRange }

// Table returns the table owning the date column.
func (f *TimeRangeFilter) Table() string { return f.TableName }

// AppliesTo returns TABLE.COLUMN.
func (f *TimeRangeFilter) AppliesTo() []string {
	return []string{ir.Qualify(f.TableName, f.Column)}
}

// End is the fixed upper bound of every window.
func (*TimeRangeFilter) End() string { return "NOW" }

// NegationFilter tests that no related row exists: the negated table is
// LEFT joined and its key tested for NULL.
type NegationFilter struct {
	TableName string
	KeyColumn string
	Concept   string
	Pattern   string
}

func (*NegationFilter) filterNode() {}

// Kind returns negation_filter.
func (*NegationFilter) Kind() string { return KindNegation }

// Table returns the negated table.
func (f *NegationFilter) Table() string { return f.TableName }

// AppliesTo returns the negated table's primary key.
func (f *NegationFilter) AppliesTo() []string {
	return []string{ir.Qualify(f.TableName, f.KeyColumn)}
}

// Operator is always IS NULL.
func (*NegationFilter) Operator() string { return "IS NULL" }

// QueryPlan is the fully resolved plan for one question.
type QueryPlan struct {
	Distinct    bool
	From        string
	RowGrain    string
	Joins       []JoinSpec
	Filters     []Filter
	Select      []SelectColumn
	Source      string
	Explanation []string
	Warnings    []Warning
}

// Warning codes.
const (
	WarnPathPlanningDegraded  = "PATH_PLANNING_DEGRADED"
	WarnSimilarityUnavailable = "SIMILARITY_INDEX_UNAVAILABLE"
	WarnTimeWindowCoerced     = "TIME_WINDOW_COERCED"
)

// Warning is a non-fatal degradation attached to a plan.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String renders CODE: message.
func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Tables returns the anchor followed by every join target, in join order.
func (p *QueryPlan) Tables() []string {
	out := []string{p.From}
	for _, j := range p.Joins {
		out = append(out, j.TargetTable)
	}
	return out
}

// FilterKinds returns the kind of every filter in order.
func (p *QueryPlan) FilterKinds() []string {
	out := make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		out = append(out, f.Kind())
	}
	return out
}
