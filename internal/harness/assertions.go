package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/aivia/internal/queryir"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// JoinLabel renders a join as "<type> SOURCE -> TARGET".
func JoinLabel(j queryir.JoinSpec) string {
	return fmt.Sprintf("%s %s -> %s", j.JoinType, j.SourceTable, j.TargetTable)
}

// SelectLabel renders the plan's output column as TABLE.COLUMN.
func SelectLabel(p *queryir.QueryPlan) string {
	if len(p.Select) == 0 {
		return ""
	}
	return p.Select[0].Table + "." + p.Select[0].Column
}

func joinLabels(p *queryir.QueryPlan) []string {
	out := make([]string, len(p.Joins))
	for i, j := range p.Joins {
		out[i] = JoinLabel(j)
	}
	return out
}

func appliesTo(p *queryir.QueryPlan) []string {
	var out []string
	for _, f := range p.Filters {
		out = append(out, f.AppliesTo()...)
	}
	return out
}

func warningCodes(p *queryir.QueryPlan) []string {
	out := make([]string, len(p.Warnings))
	for i, w := range p.Warnings {
		out[i] = w.Code
	}
	return out
}

// EvaluateExpect checks a result against an expectation and returns one
// message per mismatch.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string
	fail := func(field, expected, actual string) {
		errs = append(errs, (&AssertionError{Field: field, Expected: expected, Actual: actual}).Error())
	}

	if expect.Error != "" || result.Plan == nil {
		if result.ErrorCode != expect.Error {
			fail("error", orNone(expect.Error), orNone(result.ErrorCode))
		}
		return errs
	}

	plan := result.Plan
	if expect.From != "" && plan.From != expect.From {
		fail("from", expect.From, plan.From)
	}
	if expect.Joins != nil {
		checkList(fail, "joins", expect.Joins, joinLabels(plan))
	}
	if expect.FilterKinds != nil {
		checkList(fail, "filter_kinds", expect.FilterKinds, plan.FilterKinds())
	}
	if expect.AppliesTo != nil {
		checkList(fail, "applies_to", expect.AppliesTo, appliesTo(plan))
	}
	if expect.Select != "" && SelectLabel(plan) != expect.Select {
		fail("select", expect.Select, SelectLabel(plan))
	}
	if expect.Warnings != nil {
		checkList(fail, "warnings", expect.Warnings, warningCodes(plan))
	}
	return errs
}

func checkList(fail func(field, expected, actual string), field string, expected, actual []string) {
	if !slices.Equal(expected, actual) {
		fail(field, fmt.Sprintf("%v", expected), fmt.Sprintf("%v", actual))
	}
}

func orNone(s string) string {
	if s == "" {
		return "no error"
	}
	return s
}
