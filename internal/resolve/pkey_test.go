package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/testutil"
)

func TestPrimaryKey(t *testing.T) {
	schema := testutil.ClinicalSchema()
	schema.AddTable(ir.SchemaTable{Name: "ORDER_PROC", Columns: []ir.Column{{Name: "DESCRIPTION"}, {Name: "ORDER_ID"}}})
	schema.AddTable(ir.SchemaTable{Name: "BARE", Columns: []ir.Column{{Name: "CODE"}, {Name: "id"}}})
	overrides := ir.DefaultPlannerSettings().KeyOverrides

	tests := []struct {
		table string
		want  string
	}{
		{"PATIENT", "PAT_ID"},            // explicit primary_key
		{"PAT_ENC", "PAT_ENC_CSN_ID"},    // override
		{"REFERRAL", "REFERRAL_ID"},      // override
		{"CLARITY_SER", "PROV_ID"},       // override
		{"CLARITY_DEP", "DEPARTMENT_ID"}, // explicit
		{"ORDER_PROC", "ORDER_ID"},       // suffix heuristic
		{"BARE", "id"},                   // generic key name
		{"ZC_APPT_STATUS", "ID"},         // default
		{"UNKNOWN", "ID"},                // unknown table
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryKey(schema, tt.table, overrides))
		})
	}
}

func TestMatchTablePattern(t *testing.T) {
	tests := []struct {
		pattern string
		table   string
		want    bool
	}{
		{"ZC_*", "ZC_APPT_STATUS", true},
		{"zc_*", "ZC_APPT_STATUS", true},
		{"ZC_*", "PATIENT", false},
		{"REFERRAL*", "REFERRAL", true},
		{"REFERRAL*", "REFERRAL_HIST", true},
		{"PAT_ENC", "PAT_ENC", true},
		{"PAT_ENC", "PAT_ENC_DX", false},
		{"ZC_[", "ZC_X", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchTablePattern(tt.pattern, tt.table))
		})
	}
}
