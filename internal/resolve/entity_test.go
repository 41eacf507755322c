package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/aivia/internal/ir"
)

func TestMatchEntities(t *testing.T) {
	r := newClinicalResolver()

	tests := []struct {
		mention string
		table   string
	}{
		{"referrals", "REFERRAL"},
		{"Referral", "REFERRAL"},
		{"referral", "REFERRAL"},
		{"REFERRALS", "REFERRAL"},
		{"patients", "PATIENT"},
		{"appointment", "F_SCHED_APPT"},
		{"visits", "PAT_ENC"},
		{"physician", "CLARITY_SER"},
		{"clinic", "CLARITY_DEP"},
		{"appointment status", "F_SCHED_APPT"},
	}

	for _, tt := range tests {
		t.Run(tt.mention, func(t *testing.T) {
			got := r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, tt.mention)}, nil)
			if assert.Len(t, got, 1) {
				assert.Equal(t, tt.table, got[0].Table)
				assert.Equal(t, ir.ScoreEntity, got[0].Score)
			}
		})
	}
}

func TestMatchEntitiesNoMatch(t *testing.T) {
	r := newClinicalResolver()
	got := r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, "invoices")}, nil)
	assert.Empty(t, got)
}

func TestMatchEntitiesTableNameWithoutAliases(t *testing.T) {
	r := New(Config{
		Schema: ir.NewSchema([]ir.SchemaTable{
			{Name: "ORDER_PROC"},
			{Name: "REFERRAL", Aliases: []string{"referral"}},
		}, nil),
		Rules: ir.DefaultRules(),
	})

	got := r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, "order_proc")}, nil)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "ORDER_PROC", got[0].Table)
	}

	got = r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, "ref")}, nil)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "REFERRAL", got[0].Table, "aliases match in either direction")
	}
}

func TestMatchEntitiesAliasesShadowTableName(t *testing.T) {
	r := New(Config{
		Schema: ir.NewSchema([]ir.SchemaTable{
			{Name: "REFERRAL", Aliases: []string{"consult"}},
		}, nil),
		Rules: ir.DefaultRules(),
	})

	got := r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, "referral")}, nil)
	assert.Empty(t, got, "a table with aliases is matched by its aliases only")
}

func TestMatchEntitiesFirstTableWins(t *testing.T) {
	r := New(Config{
		Schema: ir.NewSchema([]ir.SchemaTable{
			{Name: "A", Aliases: []string{"visit"}},
			{Name: "B", Aliases: []string{"visit"}},
		}, nil),
		Rules: ir.DefaultRules(),
	})

	got := r.MatchEntities([]ir.ConceptToken{tok(ir.TokenEntity, "visit")}, nil)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "A", got[0].Table)
	}
}
