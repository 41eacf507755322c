package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/testutil"
)

// createTestStore creates a new store in a temp dir with sequential ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDs("req")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPlan builds a minimal valid plan anchored at from.
func createTestPlan(from string, values ...string) *queryir.QueryPlan {
	plan := &queryir.QueryPlan{
		Distinct: true,
		From:     from,
		RowGrain: from,
		Select:   []queryir.SelectColumn{{Table: from, Column: from + "_ID", Alias: from + "_ID"}},
		Source:   queryir.SourceSemanticPlanner,
	}
	if len(values) > 0 {
		plan.Filters = []queryir.Filter{&queryir.ValueFilter{
			TableName:  from,
			Column:     "STATUS",
			Values:     values,
			Resolution: ir.ValueKindCategory,
			Confidence: ir.ScoreCategory,
		}}
	}
	return plan
}
