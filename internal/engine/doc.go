// Package engine assembles query plans from concept tokens.
//
// Synthesize is the single entry point. For one request it:
//
//  1. classifies tokens and rejects unknown token types
//  2. resolves entity, value, negation and temporal bindings
//  3. fails with NO_BINDINGS_FOUND when nothing but time windows resolved
//  4. picks the anchor table (row grain)
//  5. plans inner joins for entity and value tables, then left joins for
//     negated tables, through the path planner adapter
//  6. builds filters (value, then time range, then negation) and the
//     single select column
//  7. validates the plan and fails with INCONSISTENT_PLAN rather than
//     return an inconsistent one
//
// Degradations that do not invalidate the plan (similarity index
// unavailable, substituted join predicates) are attached to the plan as
// warnings and repeated on its explanation trail.
//
// An Engine is immutable after New. Synthesize is safe for concurrent use
// as long as the configured oracle and similarity loader are.
package engine
