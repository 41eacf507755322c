// Package resolve turns classified concept tokens into schema bindings.
//
// Each resolver is a pure function over the read-only Schema, concept
// registry, entity type configuration and rule tables held by a Resolver:
//
//	entity tokens    -> EntityBinding    (alias / name overlap)
//	value tokens     -> ValueBinding     (concept path, then category path)
//	negation tokens  -> NegationBinding  (prefix strip, owner table)
//	time windows     -> TemporalBinding  (relative window, no table yet)
//
// A token that resolves to nothing is dropped. Only the assembler decides
// whether an empty result is fatal.
//
// Derived lookups (lookup tables, the concept label column, the negation
// owner map) are computed once in New, so a Resolver is immutable and safe
// for concurrent use.
package resolve
