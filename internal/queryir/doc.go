// Package queryir defines the query plan produced by the synthesizer.
//
// A QueryPlan is the sole output of plan synthesis: an anchor table, an
// ordered list of joins, an ordered list of filters and the selected key.
// Renderers (see internal/querysql) consume it; nothing in this package
// knows about a concrete query language.
//
//	QueryPlan
//	  from      anchor table (row grain)
//	  joins     JoinSpec{source, target, predicate, inner|left}
//	  filters   ValueFilter | TimeRangeFilter | NegationFilter
//	  select    exactly one SelectColumn: the anchor's primary key
//
// SEALED INTERFACES:
//
// Filter is sealed with a marker method. Only types in this package
// implement it, so renderers can switch exhaustively:
//
//	switch f := filter.(type) {
//	case *ValueFilter:
//	case *TimeRangeFilter:
//	case *NegationFilter:
//	}
//
// INVARIANTS (checked by Validate):
//   - every table named by a join or filter is the anchor or the target
//     of a join
//   - select has exactly one entry, on the anchor table
//   - a negation filter's table is the anchor or a LEFT join target
//
// Plans are canonicalized to ir.IRObject (no floats, sorted keys) so two
// plans can be compared byte for byte through ir.PlanFingerprint.
package queryir
