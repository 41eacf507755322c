package queryir

import (
	"encoding/json"

	"github.com/roach88/aivia/internal/ir"
)

// Canonical returns the plan as a canonical document. Field names match
// the plan's JSON form.
func (p *QueryPlan) Canonical() ir.IRObject {
	joins := make(ir.IRArray, 0, len(p.Joins))
	for _, j := range p.Joins {
		joins = append(joins, ir.IRObject{
			"source_table": ir.IRString(j.SourceTable),
			"target_table": ir.IRString(j.TargetTable),
			"predicate":    ir.IRString(j.Predicate),
			"join_type":    ir.IRString(j.JoinType),
		})
	}

	filters := make(ir.IRArray, 0, len(p.Filters))
	for _, f := range p.Filters {
		filters = append(filters, canonicalFilter(f))
	}

	sel := make(ir.IRArray, 0, len(p.Select))
	for _, c := range p.Select {
		sel = append(sel, ir.IRObject{
			"table":  ir.IRString(c.Table),
			"column": ir.IRString(c.Column),
			"alias":  ir.IRString(c.Alias),
		})
	}

	warnings := make(ir.IRArray, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		warnings = append(warnings, ir.IRObject{
			"code":    ir.IRString(w.Code),
			"message": ir.IRString(w.Message),
		})
	}

	return ir.IRObject{
		"distinct":    ir.IRBool(p.Distinct),
		"from":        ir.IRString(p.From),
		"row_grain":   ir.IRString(p.RowGrain),
		"joins":       joins,
		"filters":     filters,
		"select":      sel,
		"source":      ir.IRString(p.Source),
		"explanation": ir.Strings(p.Explanation),
		"warnings":    warnings,
	}
}

func canonicalFilter(f Filter) ir.IRObject {
	obj := ir.IRObject{
		"kind":       ir.IRString(f.Kind()),
		"applies_to": ir.Strings(f.AppliesTo()),
	}
	switch v := f.(type) {
	case *ValueFilter:
		obj["table"] = ir.IRString(v.TableName)
		obj["column"] = ir.IRString(v.Column)
		obj["operator"] = ir.IRString(v.Operator())
		obj["values"] = ir.Strings(v.Values)
		obj["resolution"] = ir.IRString(v.Resolution)
		obj["confidence"] = ir.IRInt(v.Confidence)
		obj["token"] = ir.IRString(v.Token)
	case *TimeRangeFilter:
		obj["window"] = ir.IRObject{
			"unit":      ir.IRString(v.Window.Unit),
			"value":     ir.IRInt(v.Window.Value),
			"direction": ir.IRString(v.Window.Direction),
		}
		obj["end"] = ir.IRString(v.End())
		obj["token"] = ir.IRString(v.Token)
	case *NegationFilter:
		obj["table"] = ir.IRString(v.TableName)
		obj["operator"] = ir.IRString(v.Operator())
		obj["concept"] = ir.IRString(v.Concept)
		obj["pattern"] = ir.IRString(v.Pattern)
	}
	return obj
}

// CanonicalJSON returns the RFC 8785 bytes of the plan.
func (p *QueryPlan) CanonicalJSON() ([]byte, error) {
	return ir.MarshalCanonical(p.Canonical())
}

// Fingerprint returns the plan's content hash.
func (p *QueryPlan) Fingerprint() (string, error) {
	return ir.PlanFingerprint(p.Canonical())
}

// MarshalJSON emits the canonical form so plan JSON and fingerprints
// never disagree.
func (p *QueryPlan) MarshalJSON() ([]byte, error) {
	return p.CanonicalJSON()
}

var _ json.Marshaler = (*QueryPlan)(nil)
