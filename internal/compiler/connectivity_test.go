package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/testutil"
)

func TestAnalyzeConnectivityClinical(t *testing.T) {
	warnings := AnalyzeConnectivity(testutil.ClinicalSchema(), "PATIENT")
	assert.Empty(t, warnings, "clinical fixture is fully connected")
}

func TestAnalyzeConnectivityIsland(t *testing.T) {
	schema := ir.NewSchema([]ir.SchemaTable{
		{Name: "PATIENT"},
		{Name: "LAB_RESULT"},
		{Name: "REFERRAL"},
		{Name: "LAB_ORDER"},
		{Name: "STAGING"},
	}, []ir.JoinEdge{
		{LeftTable: "PATIENT", RightTable: "REFERRAL", Predicate: "a = b"},
		{LeftTable: "LAB_ORDER", RightTable: "LAB_RESULT", Predicate: "c = d"},
	})

	warnings := AnalyzeConnectivity(schema, "PATIENT")
	require.Len(t, warnings, 2)

	assert.Equal(t, []string{"LAB_RESULT", "LAB_ORDER"}, warnings[0].Tables, "declaration order within a component")
	assert.Equal(t, []string{"STAGING"}, warnings[1].Tables)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "not reachable from PATIENT")
}

func TestAnalyzeConnectivityNoJoins(t *testing.T) {
	schema := ir.NewSchema([]ir.SchemaTable{{Name: "PATIENT"}}, nil)
	assert.Empty(t, AnalyzeConnectivity(schema, "PATIENT"))
}
