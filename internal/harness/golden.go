package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/aivia/internal/ir"
)

// Snapshot is the compact canonical form of a scenario outcome stored in
// golden files. It leaves out the explanation trail so wording changes do
// not churn snapshots.
func Snapshot(name string, result *Result) ir.IRObject {
	obj := ir.IRObject{"scenario": ir.IRString(name)}
	if result.Plan == nil {
		obj["error"] = ir.IRString(result.ErrorCode)
		return obj
	}
	plan := result.Plan
	obj["from"] = ir.IRString(plan.From)
	obj["joins"] = ir.Strings(joinLabels(plan))
	obj["filter_kinds"] = ir.Strings(plan.FilterKinds())
	obj["applies_to"] = ir.Strings(appliesTo(plan))
	obj["select"] = ir.IRString(SelectLabel(plan))
	obj["warnings"] = ir.Strings(warningCodes(plan))
	return obj
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, h *Harness, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
