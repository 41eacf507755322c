package compiler

import (
	"reflect"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/aivia/internal/ir"
)

// Bundle is everything the synthesizer reads at startup. It is built once
// and never mutated.
type Bundle struct {
	Schema      *ir.Schema
	Registry    *ir.ConceptRegistry
	EntityTypes ir.EntityTypes
	Rules       ir.Rules
	Planner     ir.PlannerSettings
}

// CompileBundle parses a unified configuration value. The schema section
// is required; concepts, entity_types, rules and planner are optional.
func CompileBundle(v cue.Value) (*Bundle, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schemaVal := v.LookupPath(cue.ParsePath("schema"))
	if !schemaVal.Exists() {
		return nil, &CompileError{Field: "schema", Message: "schema is required", Pos: v.Pos()}
	}
	schema, err := CompileSchema(schemaVal)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Schema:   schema,
		Registry: ir.NewConceptRegistry(),
		Rules:    ir.DefaultRules(),
		Planner:  ir.DefaultPlannerSettings(),
	}

	if cv := v.LookupPath(cue.ParsePath("concepts")); cv.Exists() {
		if b.Registry, err = CompileConcepts(cv); err != nil {
			return nil, err
		}
	}
	if ev := v.LookupPath(cue.ParsePath("entity_types")); ev.Exists() {
		if b.EntityTypes, err = CompileEntityTypes(ev); err != nil {
			return nil, err
		}
	}
	if rv := v.LookupPath(cue.ParsePath("rules")); rv.Exists() {
		if b.Rules, err = CompileRules(rv, b.Rules); err != nil {
			return nil, err
		}
	}
	if pv := v.LookupPath(cue.ParsePath("planner")); pv.Exists() {
		if b.Planner, err = CompilePlanner(pv, b.Planner); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// CompileSchema parses the schema section:
//
//	schema: {
//	  tables: PATIENT: {aliases: ["patient"], columns: [{name: "PAT_ID"}]}
//	  joins: [{left_table: "PATIENT", right_table: "PAT_ENC", predicate: "..."}]
//	}
//
// Table order follows CUE field order.
func CompileSchema(v cue.Value) (*ir.Schema, error) {
	schema := ir.NewSchema(nil, nil)

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{Field: "schema.tables", Message: "at least one table is required", Pos: v.Pos()}
	}
	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		tbl, err := compileTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		schema.AddTable(tbl)
	}

	if jv := v.LookupPath(cue.ParsePath("joins")); jv.Exists() {
		var joins []ir.JoinEdge
		if err := jv.Decode(&joins); err != nil {
			return nil, formatCUEError(err)
		}
		schema.Joins = joins
	}

	return schema, nil
}

func compileTable(name string, v cue.Value) (ir.SchemaTable, error) {
	tbl := ir.SchemaTable{Name: name}
	if err := decodeField(v, "aliases", &tbl.Aliases); err != nil {
		return tbl, err
	}
	if err := decodeField(v, "description", &tbl.Description); err != nil {
		return tbl, err
	}
	if err := decodeField(v, "primary_key", &tbl.PrimaryKey); err != nil {
		return tbl, err
	}

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return tbl, nil
	}
	iter, err := colsVal.List()
	if err != nil {
		return tbl, formatCUEError(err)
	}
	for iter.Next() {
		col, err := compileColumn(iter.Value())
		if err != nil {
			return tbl, err
		}
		tbl.Columns = append(tbl.Columns, col)
	}
	return tbl, nil
}

// compileColumn accepts either a bare column name or {name, description}.
func compileColumn(v cue.Value) (ir.Column, error) {
	if s, err := v.String(); err == nil {
		return ir.Column{Name: s}, nil
	}
	var col ir.Column
	if err := v.Decode(&col); err != nil {
		return col, formatCUEError(err)
	}
	if strings.TrimSpace(col.Name) == "" {
		return col, &CompileError{Field: "columns.name", Message: "column name is required", Pos: v.Pos()}
	}
	return col, nil
}

// CompileConcepts parses the ordered concept registry:
//
//	concepts: [{preferred_term: "Diabetes Mellitus", synonyms: ["diabetes"]}]
func CompileConcepts(v cue.Value) (*ir.ConceptRegistry, error) {
	var entries []ir.ConceptEntry
	if err := v.Decode(&entries); err != nil {
		return nil, formatCUEError(err)
	}
	return ir.NewConceptRegistry(entries...), nil
}

// CompileEntityTypes parses entity types in declaration order:
//
//	entity_types: referral: {semantic_indicators: ["referral"], table_patterns: ["REFERRAL*"]}
func CompileEntityTypes(v cue.Value) (ir.EntityTypes, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out ir.EntityTypes
	for iter.Next() {
		cfg := ir.EntityTypeConfig{Name: iter.Label()}
		if err := decodeField(iter.Value(), "semantic_indicators", &cfg.SemanticIndicators); err != nil {
			return nil, err
		}
		if err := decodeField(iter.Value(), "table_patterns", &cfg.TablePatterns); err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// CompileRules overlays the rules section onto base. Each key present
// replaces the default wholesale; absent keys keep the default.
func CompileRules(v cue.Value, base ir.Rules) (ir.Rules, error) {
	r := base
	fields := []struct {
		path string
		dst  any
	}{
		{"concept_table.description", &r.ConceptTable.Description},
		{"concept_table.aliases", &r.ConceptTable.Aliases},
		{"concept_table.column_name", &r.ConceptTable.ColumnName},
		{"concept_table.column_description", &r.ConceptTable.ColumnDescription},
		{"morphological_suffixes", &r.MorphologicalSuffixes},
		{"lookup", &r.Lookup},
		{"category", &r.Category},
		{"context_boosts", &r.ContextBoosts},
		{"status_vocabulary", &r.StatusVocabulary},
		{"token_hints", &r.TokenHints},
		{"negation_prefixes", &r.NegationPrefixes},
	}
	for _, f := range fields {
		if err := decodeInto(v, "rules."+f.path, f.path, f.dst); err != nil {
			return base, err
		}
	}
	return r, nil
}

// CompilePlanner overlays the planner section onto base.
func CompilePlanner(v cue.Value, base ir.PlannerSettings) (ir.PlannerSettings, error) {
	p := base
	fields := []struct {
		path string
		dst  any
	}{
		{"default_table", &p.DefaultTable},
		{"value_grains", &p.ValueGrains},
		{"negation_grains", &p.NegationGrains},
		{"grain_tables", &p.GrainTables},
		{"date_columns", &p.DateColumns},
		{"default_date_column", &p.DefaultDateColumn},
		{"select_aliases", &p.SelectAliases},
		{"key_overrides", &p.KeyOverrides},
		{"strict_joins", &p.StrictJoins},
	}
	for _, f := range fields {
		if err := decodeInto(v, "planner."+f.path, f.path, f.dst); err != nil {
			return base, err
		}
	}
	return p, nil
}

// decodeField decodes v.path into dst when the field exists.
func decodeField[T any](v cue.Value, path string, dst *T) error {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil
	}
	var out T
	if err := f.Decode(&out); err != nil {
		return &CompileError{Field: path, Message: cueMessage(err), Pos: f.Pos()}
	}
	*dst = out
	return nil
}

// decodeInto is decodeField for a destination whose type is only known
// at runtime. The destination is zeroed first so maps and lists replace
// rather than merge with the defaults.
func decodeInto(v cue.Value, field, path string, dst any) error {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil
	}
	rv := reflect.ValueOf(dst).Elem()
	rv.Set(reflect.Zero(rv.Type()))
	if err := f.Decode(dst); err != nil {
		return &CompileError{Field: field, Message: cueMessage(err), Pos: f.Pos()}
	}
	return nil
}

func cueMessage(err error) string {
	if ce, ok := formatCUEError(err).(*CompileError); ok {
		return ce.Message
	}
	return err.Error()
}
