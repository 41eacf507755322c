// Package store provides the SQLite plan log.
//
// Two tables:
//   - plans: one row per distinct plan, keyed by its fingerprint
//     (content-addressed, so identical plans are stored once)
//   - plan_requests: one row per synthesis request that produced a plan
//
// # Critical Patterns
//
// Content addressing
//   - plan fingerprints come from ir.PlanFingerprint over RFC 8785
//     canonical JSON with domain separation
//   - INSERT ... ON CONFLICT DO NOTHING makes recording idempotent
//
// Logical ordering
//   - requests are ordered by seq (logical clock), never by timestamps
//   - all queries include ORDER BY seq, id COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
