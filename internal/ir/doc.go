// Package ir provides the shared data model for the AIVIA plan synthesizer.
//
// This package contains type definitions and the canonical encoding only.
// All other internal packages import ir; ir imports nothing internal. This
// keeps the model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Schema, ConceptRegistry and EntityTypeConfig are read-only after load
//     and safe to share across goroutines without locking
//   - Ordered collections everywhere iteration order decides a tie
//     (tables, concepts, entity types)
//   - NO float types in anything that is hashed; scores are per-mille ints
//   - All JSON tags use snake_case
package ir
