package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/testutil"
)

func TestCompileSchemaBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		schema: {
			tables: {
				REFERRAL: {
					aliases: ["referral", "referrals"]
					description: "Referrals"
					columns: ["REFERRAL_ID", {name: "RFL_STATUS_C", description: "status code"}]
				}
				PATIENT: {
					primary_key: "PAT_ID"
					columns: ["PAT_ID"]
				}
			}
			joins: [{left_table: "PATIENT", right_table: "REFERRAL", predicate: "REFERRAL.PAT_ID = PATIENT.PAT_ID"}]
		}
	`)
	require.NoError(t, v.Err())

	schema, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	require.NoError(t, err)

	assert.Equal(t, []string{"REFERRAL", "PATIENT"}, schema.TableNames(), "field order is declaration order")
	ref, ok := schema.Table("REFERRAL")
	require.True(t, ok)
	assert.Equal(t, []string{"referral", "referrals"}, ref.Aliases)
	assert.Equal(t, ir.Column{Name: "RFL_STATUS_C", Description: "status code"}, ref.Columns[1])
	pat, _ := schema.Table("PATIENT")
	assert.Equal(t, "PAT_ID", pat.PrimaryKey)
	require.Len(t, schema.Joins, 1)
	assert.Equal(t, "REFERRAL.PAT_ID = PATIENT.PAT_ID", schema.Joins[0].Predicate)
}

func TestCompileSchemaMissingTables(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`schema: joins: []`)

	_, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "schema.tables", compileErr.Field)
}

func TestCompileSchemaBadColumn(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`schema: tables: T: columns: [{description: "no name"}]`)

	_, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column name is required")
}

func TestCompileBundleDefaults(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`schema: tables: PATIENT: columns: ["PAT_ID"]`)

	b, err := CompileBundle(v)
	require.NoError(t, err)

	assert.Equal(t, ir.DefaultRules(), b.Rules)
	assert.Equal(t, ir.DefaultPlannerSettings(), b.Planner)
	assert.Equal(t, 0, b.Registry.Len())
	assert.Empty(t, b.EntityTypes)
}

func TestCompileBundleRequiresSchema(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`concepts: []`)

	_, err := CompileBundle(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema is required")
}

func TestCompileRulesOverlay(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		rules: {
			negation_prefixes: ["no ", "never "]
			token_hints: {"no show": "ZC_APPT_STATUS"}
			concept_table: description: {oncology: 3}
		}
	`)
	require.NoError(t, v.Err())

	rules, err := CompileRules(v.LookupPath(cue.ParsePath("rules")), ir.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, []string{"no ", "never "}, rules.NegationPrefixes)
	assert.Equal(t, map[string]string{"no show": "ZC_APPT_STATUS"}, rules.TokenHints, "maps replace the default")
	assert.Equal(t, ir.KeywordWeights{"oncology": 3}, rules.ConceptTable.Description)
	assert.Equal(t, ir.DefaultRules().ConceptTable.ColumnName, rules.ConceptTable.ColumnName, "absent keys keep defaults")
	assert.Equal(t, ir.DefaultRules().Lookup, rules.Lookup)
}

func TestCompileRulesTypeError(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rules: negation_prefixes: 42`)

	_, err := CompileRules(v.LookupPath(cue.ParsePath("rules")), ir.DefaultRules())
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "rules.negation_prefixes", compileErr.Field)
}

func TestCompilePlannerOverlay(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		planner: {
			default_table: "REFERRAL"
			strict_joins: true
			date_columns: {F_SCHED_APPT: "APPT_DATE"}
		}
	`)
	require.NoError(t, v.Err())

	p, err := CompilePlanner(v.LookupPath(cue.ParsePath("planner")), ir.DefaultPlannerSettings())
	require.NoError(t, err)

	assert.Equal(t, "REFERRAL", p.DefaultTable)
	assert.True(t, p.StrictJoins)
	assert.Equal(t, "APPT_DATE", p.DateColumn("F_SCHED_APPT"))
	assert.Equal(t, "CONTACT_DATE", p.DateColumn("PAT_ENC"), "date_columns replaces the default map")
	assert.Equal(t, ir.DefaultPlannerSettings().ValueGrains, p.ValueGrains)
}

func TestCompileEntityTypesOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		entity_types: {
			referral: {semantic_indicators: ["referral"], table_patterns: ["REFERRAL*"]}
			appointment: {semantic_indicators: ["appointment"], table_patterns: ["ZC_APPT_*"]}
		}
	`)

	types, err := CompileEntityTypes(v.LookupPath(cue.ParsePath("entity_types")))
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "referral", types[0].Name)
	assert.Equal(t, []string{"ZC_APPT_*"}, types[1].TablePatterns)
}

func TestLoadDirClinicalConfig(t *testing.T) {
	result, err := LoadDir(filepath.Join("..", "..", "testdata", "config"))
	require.NoError(t, err)

	b := result.Bundle
	assert.Equal(t, testutil.ClinicalSchema().TableNames(), b.Schema.TableNames())
	assert.Equal(t, testutil.ClinicalJoins(), b.Schema.Joins)
	assert.Equal(t, testutil.ClinicalRegistry().Entries, b.Registry.Entries)
	assert.Equal(t, testutil.ClinicalEntityTypes(), b.EntityTypes)
	assert.Equal(t, "CLARITY_DEP", b.Planner.GrainTable("DEPARTMENT"))
	assert.Empty(t, Validate(b))

	for _, tbl := range testutil.ClinicalTables() {
		got, ok := b.Schema.Table(tbl.Name)
		require.True(t, ok, tbl.Name)
		assert.Equal(t, tbl, *got)
	}
}

func TestLoadDirUnifiesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte(`schema: tables: PATIENT: columns: ["PAT_ID"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte(`planner: default_table: "PATIENT"`), 0o644))

	result, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Len(t, result.Files, 2)
	assert.True(t, result.Bundle.Schema.HasTable("PATIENT"))
}

func TestLoadDirConflict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte(`planner: default_table: "PATIENT"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte(`planner: default_table: "REFERRAL"`), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestCompileErrorFormat(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`x: 1`, cue.Filename("planner.cue"))

	err := &CompileError{Field: "planner", Message: "bad", Pos: v.LookupPath(cue.ParsePath("x")).Pos()}
	assert.Contains(t, err.Error(), "planner.cue:1:")
	assert.Equal(t, "planner: bad", (&CompileError{Field: "planner", Message: "bad"}).Error())
}
