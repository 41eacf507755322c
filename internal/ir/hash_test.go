package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFingerprintDeterminism(t *testing.T) {
	plan := IRObject{
		"from":     IRString("REFERRAL"),
		"distinct": IRBool(true),
		"joins":    IRArray{},
	}

	fp1, err := PlanFingerprint(plan)
	require.NoError(t, err)
	fp2, err := PlanFingerprint(IRObject{
		"joins":    IRArray{},
		"distinct": IRBool(true),
		"from":     IRString("REFERRAL"),
	})
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "key order must not affect the fingerprint")
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestPlanFingerprintChangesWithContent(t *testing.T) {
	fp1, err := PlanFingerprint(IRObject{"from": IRString("REFERRAL")})
	require.NoError(t, err)
	fp2, err := PlanFingerprint(IRObject{"from": IRString("PATIENT")})
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
}

func TestPlanFingerprintRejectsNull(t *testing.T) {
	_, err := PlanFingerprint(IRObject{"from": nil})
	assert.Error(t, err)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainPlan, data), hashWithDomain(DomainSchema, data))
}

func TestSchemaHash(t *testing.T) {
	build := func(order []string) *Schema {
		var tables []SchemaTable
		for _, n := range order {
			tables = append(tables, SchemaTable{Name: n, Columns: []Column{{Name: n + "_ID"}}})
		}
		return NewSchema(tables, []JoinEdge{{LeftTable: order[0], RightTable: order[1], Predicate: "x = y"}})
	}

	h1, err := SchemaHash(build([]string{"PATIENT", "REFERRAL"}))
	require.NoError(t, err)
	h2, err := SchemaHash(build([]string{"PATIENT", "REFERRAL"}))
	require.NoError(t, err)
	h3, err := SchemaHash(build([]string{"REFERRAL", "PATIENT"}))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3, "declaration order is part of the schema identity")
}
