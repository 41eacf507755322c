package queryir

import (
	"fmt"
	"strings"
)

// ValidationError is one consistency violation in a plan.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors joins several violations into one error.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the plan's structural invariants and returns every
// violation found. An empty result means the plan is internally consistent.
//
// Validate is a pure function with no side effects.
func Validate(plan *QueryPlan) []ValidationError {
	v := &validator{}
	if plan == nil {
		v.addError("plan", "nil plan")
		return v.errors
	}
	v.validate(plan)
	return v.errors
}

// validator accumulates errors during traversal.
type validator struct {
	errors []ValidationError
}

func (v *validator) addError(field, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validate(plan *QueryPlan) {
	if plan.From == "" {
		v.addError("from", "anchor table is empty")
	}

	// Joins are checked in order: a source must be the anchor or a table
	// joined by an earlier edge.
	reachable := map[string]bool{plan.From: true}
	leftTargets := map[string]bool{}
	for i, j := range plan.Joins {
		field := fmt.Sprintf("joins[%d]", i)
		if !j.JoinType.IsValid() {
			v.addError(field, "unknown join type %q", j.JoinType)
		}
		if j.TargetTable == "" {
			v.addError(field, "empty target table")
		}
		if j.Predicate == "" {
			v.addError(field, "empty predicate")
		}
		if !reachable[j.SourceTable] {
			v.addError(field, "source table %q is not reachable from %q", j.SourceTable, plan.From)
		}
		reachable[j.TargetTable] = true
		if j.JoinType == JoinLeft {
			leftTargets[j.TargetTable] = true
		}
	}

	for i, f := range plan.Filters {
		field := fmt.Sprintf("filters[%d]", i)
		if f == nil {
			v.addError(field, "nil filter")
			continue
		}
		if !reachable[f.Table()] {
			v.addError(field, "%s filter on %q: table is not the anchor or a join target", f.Kind(), f.Table())
		}
		if neg, ok := f.(*NegationFilter); ok {
			if neg.TableName != plan.From && !leftTargets[neg.TableName] {
				v.addError(field, "negation filter on %q requires a LEFT join", neg.TableName)
			}
		}
		if val, ok := f.(*ValueFilter); ok && len(val.Values) == 0 {
			v.addError(field, "value filter on %s has no values", strings.Join(val.AppliesTo(), ","))
		}
	}

	switch {
	case len(plan.Select) != 1:
		v.addError("select", "expected exactly one column, got %d", len(plan.Select))
	case plan.Select[0].Table != plan.From:
		v.addError("select", "selected table %q is not the anchor %q", plan.Select[0].Table, plan.From)
	case plan.Select[0].Column == "":
		v.addError("select", "selected column is empty")
	}
}
