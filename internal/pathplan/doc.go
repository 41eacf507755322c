// Package pathplan completes join paths between an anchor table and the
// tables a plan references.
//
// The path oracle is an external collaborator: anything implementing
// Oracle can answer. SchemaOracle is the built-in answer, a breadth-first
// search over the declared join edges. CachedOracle memoizes any oracle
// with an ARC cache.
//
// Adapter turns oracle results into queryir.JoinSpec values and records
// every degradation as a warning instead of hiding it:
//
//   - an edge without a predicate gets TARGET.<pk> = SOURCE.<pk>
//   - an oracle failure yields no joins
package pathplan
