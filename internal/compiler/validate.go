package compiler

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// Schema errors (E201-E209)
	ErrEmptyTableName    = "E201" // table name is empty
	ErrUnknownJoinTable  = "E202" // join references a table not in the schema
	ErrDuplicateColumn   = "E203" // column declared twice on one table
	ErrEmptyPredicate    = "E204" // join predicate is empty
	ErrUnknownPrimaryKey = "E205" // primary_key names no declared column

	// Registry errors (E210-E219)
	ErrEmptyConcept        = "E210" // concept has no preferred term
	ErrNoIndicators        = "E211" // entity type has no semantic indicators
	ErrInvalidTablePattern = "E212" // table pattern is not a valid glob

	// Rule and planner errors (E220-E229)
	ErrUnknownDefaultTable = "E220" // planner default table not in schema
	ErrEmptyLookupRule     = "E221" // lookup pattern or label column empty
	ErrNegativeWeight      = "E222" // rule weight below zero
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled bundle. Returns all errors found (does not
// fail-fast).
func Validate(b *Bundle) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateSchema(b.Schema)...)
	errs = append(errs, validateRegistry(b.Registry, b.EntityTypes)...)
	errs = append(errs, validateRules(b.Rules)...)
	errs = append(errs, validatePlanner(b.Planner, b.Schema)...)
	return errs
}

func validateSchema(s *ir.Schema) []ValidationError {
	var errs []ValidationError

	for i, t := range s.Tables() {
		field := fmt.Sprintf("schema.tables[%d]", i)

		// E201: table name is required
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "table name is required and must be non-empty",
				Code:    ErrEmptyTableName,
			})
		}

		// E203: duplicate column
		seen := make(map[string]bool, len(t.Columns))
		for j, c := range t.Columns {
			if seen[c.Name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.columns[%d]", field, j),
					Message: fmt.Sprintf("duplicate column %q on table %q", c.Name, t.Name),
					Code:    ErrDuplicateColumn,
				})
			}
			seen[c.Name] = true
		}

		// E205: an explicit key must be a declared column when columns exist
		if t.PrimaryKey != "" && len(t.Columns) > 0 && !t.HasColumn(t.PrimaryKey) {
			errs = append(errs, ValidationError{
				Field:   field + ".primary_key",
				Message: fmt.Sprintf("primary key %q is not a column of %q", t.PrimaryKey, t.Name),
				Code:    ErrUnknownPrimaryKey,
			})
		}
	}

	for i, j := range s.Joins {
		field := fmt.Sprintf("schema.joins[%d]", i)

		// E202: both ends must exist
		for _, name := range []string{j.LeftTable, j.RightTable} {
			if !s.HasTable(name) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("join references unknown table %q", name),
					Code:    ErrUnknownJoinTable,
				})
			}
		}

		// E204: predicate required
		if strings.TrimSpace(j.Predicate) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".predicate",
				Message: fmt.Sprintf("join %s -> %s has an empty predicate", j.LeftTable, j.RightTable),
				Code:    ErrEmptyPredicate,
			})
		}
	}

	return errs
}

func validateRegistry(r *ir.ConceptRegistry, types ir.EntityTypes) []ValidationError {
	var errs []ValidationError

	if r != nil {
		for i, c := range r.Entries {
			// E210: preferred term required
			if strings.TrimSpace(c.PreferredTerm) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("concepts[%d].preferred_term", i),
					Message: "preferred term is required",
					Code:    ErrEmptyConcept,
				})
			}
		}
	}

	for _, et := range types {
		// E211: indicators required
		if len(et.SemanticIndicators) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("entity_types.%s.semantic_indicators", et.Name),
				Message: "at least one semantic indicator is required",
				Code:    ErrNoIndicators,
			})
		}
		// E212: patterns must be valid globs
		for i, p := range et.TablePatterns {
			if _, err := path.Match(p, ""); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("entity_types.%s.table_patterns[%d]", et.Name, i),
					Message: fmt.Sprintf("invalid table pattern %q: %v", p, err),
					Code:    ErrInvalidTablePattern,
				})
			}
		}
	}

	return errs
}

func validateRules(r ir.Rules) []ValidationError {
	var errs []ValidationError

	// E221: lookup rule needs both halves
	if r.Lookup.TablePattern == "" || r.Lookup.LabelColumn == "" {
		errs = append(errs, ValidationError{
			Field:   "rules.lookup",
			Message: "table_pattern and label_column are both required",
			Code:    ErrEmptyLookupRule,
		})
	} else if _, err := path.Match(r.Lookup.TablePattern, ""); err != nil {
		errs = append(errs, ValidationError{
			Field:   "rules.lookup.table_pattern",
			Message: fmt.Sprintf("invalid table pattern %q: %v", r.Lookup.TablePattern, err),
			Code:    ErrInvalidTablePattern,
		})
	}

	// E222: weights are non-negative
	weights := map[string]ir.KeywordWeights{
		"rules.concept_table.description":        r.ConceptTable.Description,
		"rules.concept_table.aliases":            r.ConceptTable.Aliases,
		"rules.concept_table.column_name":        r.ConceptTable.ColumnName,
		"rules.concept_table.column_description": r.ConceptTable.ColumnDescription,
	}
	for _, field := range sortedFields(weights) {
		for _, kw := range sortedFields(weights[field]) {
			if weights[field][kw] < 0 {
				errs = append(errs, ValidationError{
					Field:   field + "." + kw,
					Message: fmt.Sprintf("weight %d is negative", weights[field][kw]),
					Code:    ErrNegativeWeight,
				})
			}
		}
	}

	return errs
}

func validatePlanner(p ir.PlannerSettings, s *ir.Schema) []ValidationError {
	var errs []ValidationError

	// E220: the default anchor must exist
	if !s.HasTable(p.DefaultTable) {
		errs = append(errs, ValidationError{
			Field:   "planner.default_table",
			Message: fmt.Sprintf("default table %q is not in the schema", p.DefaultTable),
			Code:    ErrUnknownDefaultTable,
		})
	}

	return errs
}

func sortedFields[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
