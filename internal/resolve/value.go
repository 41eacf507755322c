package resolve

import (
	"github.com/roach88/aivia/internal/ir"
)

// ResolveValues binds each value token through the concept path or, when
// that misses, the category path. Each token yields at most one binding;
// tokens matching neither are dropped.
func (r *Resolver) ResolveValues(tokens []ir.ConceptToken, entityMentions []string, entities []ir.EntityBinding) []ir.ValueBinding {
	entityTables := make([]string, 0, len(entities))
	for _, e := range entities {
		entityTables = append(entityTables, e.Table)
	}

	var out []ir.ValueBinding
	for _, tok := range tokens {
		if b, ok := r.resolveConcept(tok); ok {
			out = append(out, b)
			continue
		}
		if b, ok := r.resolveCategory(tok, entityMentions, entityTables); ok {
			out = append(out, b)
			continue
		}
		r.logger.Debug("value token dropped", "token", tok.Mention)
	}
	return out
}

func (r *Resolver) resolveConcept(tok ir.ConceptToken) (ir.ValueBinding, bool) {
	entry, ok := r.LookupConcept(tok.Mention)
	if !ok {
		return ir.ValueBinding{}, false
	}
	table, column, ok := r.ConceptTarget()
	if !ok {
		r.logger.Debug("concept matched but no label column exists",
			"token", tok.Mention,
			"concept", entry.PreferredTerm)
		return ir.ValueBinding{}, false
	}
	return ir.ValueBinding{
		Token:  tok.Mention,
		Table:  table,
		Column: column,
		Value:  entry.PreferredTerm,
		Score:  ir.ScoreConcept,
		Kind:   ir.ValueKindConcept,
	}, true
}

func (r *Resolver) resolveCategory(tok ir.ConceptToken, entityMentions, entityTables []string) (ir.ValueBinding, bool) {
	value := NormalizeCategoryValue(tok.Mention)
	if value == "" {
		return ir.ValueBinding{}, false
	}
	table, ok := r.SelectCategoryTable(tok.Mention, entityMentions, entityTables)
	if !ok {
		return ir.ValueBinding{}, false
	}
	return ir.ValueBinding{
		Token:  tok.Mention,
		Table:  table,
		Column: r.rules.Lookup.LabelColumn,
		Value:  value,
		Score:  ir.ScoreCategory,
		Kind:   ir.ValueKindCategory,
	}, true
}
