// Package harness provides conformance testing for planner configurations.
//
// The harness loads a configuration bundle, runs YAML scenarios through the
// synthesizer and checks the resulting plans against each scenario's
// expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: referrals_scheduled
//	description: "Referrals with scheduled appointments"
//	question: "referrals with scheduled appointments"
//	row_grain: referral
//	tokens:
//	  - {type: entity, mention: referrals}
//	  - {type: value, mention: scheduled}
//	  - type: time_window
//	    mention: last 3 months
//	    normalized: {relative: {unit: month, value: 3, direction: past}}
//	expect:
//	  from: REFERRAL
//	  joins: ["inner REFERRAL -> PATIENT"]
//	  filter_kinds: [category, time_range]
//	  select: REFERRAL.REFERRAL_ID
//
// A scenario that expects a failure names the error code instead:
//
//	expect:
//	  error: NO_BINDINGS_FOUND
//
// # Expectations
//
// Every expectation field is optional. Present fields must match exactly:
//
//   - error: PlanError code (no plan is expected)
//   - from: anchor table
//   - joins: "<type> SOURCE -> TARGET" in plan order
//   - filter_kinds: filter kinds in plan order
//   - applies_to: every filter's TABLE.COLUMN references in plan order
//   - select: TABLE.COLUMN of the single output column
//   - warnings: warning codes in plan order
//
// # Golden Snapshots
//
// RunWithGolden compares a compact canonical snapshot of the plan with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
