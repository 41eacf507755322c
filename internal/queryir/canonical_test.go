package queryir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/ir"
)

func TestCanonicalNegationFilter(t *testing.T) {
	plan := referralPlan()

	obj := plan.Canonical()
	filters, ok := obj["filters"].(ir.IRArray)
	require.True(t, ok)
	require.Len(t, filters, 1)

	f := filters[0].(ir.IRObject)
	assert.Equal(t, ir.IRString("negation_filter"), f["kind"])
	assert.Equal(t, ir.IRString("IS NULL"), f["operator"])
	assert.Equal(t, ir.IRArray{ir.IRString("REFERRAL.REFERRAL_ID")}, f["applies_to"])
}

func TestCanonicalJSONIsStable(t *testing.T) {
	plan := referralPlan()
	plan.Filters = append(plan.Filters,
		&ValueFilter{TableName: "PATIENT", Column: "NAME", Values: []string{"Diabetes"}, Resolution: ir.ValueKindConcept, Confidence: ir.ScoreConcept, Token: "diabetic"},
		&TimeRangeFilter{TableName: "PATIENT", Column: "CONTACT_DATE", Window: ir.RelativeWindow{Unit: ir.UnitMonth, Value: 3, Direction: ir.DirectionPast}, Token: "last 3 months"},
	)

	a, err := plan.CanonicalJSON()
	require.NoError(t, err)
	b, err := plan.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	fp, err := plan.Fingerprint()
	require.NoError(t, err)
	assert.Len(t, fp, 64)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(a, &decoded))
	assert.Equal(t, "PATIENT", decoded["from"])
	assert.Equal(t, []string{KindNegation, KindEquality, KindTimeRange}, plan.FilterKinds())
}

func TestMarshalJSONMatchesCanonical(t *testing.T) {
	plan := referralPlan()

	viaJSON, err := json.Marshal(plan)
	require.NoError(t, err)
	canonical, err := plan.CanonicalJSON()
	require.NoError(t, err)

	assert.Equal(t, canonical, viaJSON)
}

func TestPlanTables(t *testing.T) {
	assert.Equal(t, []string{"PATIENT", "REFERRAL"}, referralPlan().Tables())
}
