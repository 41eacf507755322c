package resolve

import (
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// LookupConcept resolves a mention to a registry entry. The first pass
// accepts an exact or substring match (either direction) against any term
// of any entry; the second pass tries morphological variants built from
// the configured suffixes. Entries are tried in registry order.
func (r *Resolver) LookupConcept(mention string) (ir.ConceptEntry, bool) {
	m := normalizeMention(mention)
	if m == "" {
		return ir.ConceptEntry{}, false
	}
	for _, e := range r.registry.Entries {
		for _, term := range e.Terms() {
			if overlaps(m, term) {
				return e, true
			}
		}
	}
	for _, e := range r.registry.Entries {
		if r.matchesVariant(m, e) {
			return e, true
		}
	}
	return ir.ConceptEntry{}, false
}

// matchesVariant strips a known suffix ("diabetic" -> "diabet") and looks
// for the stem inside a term, then appends each suffix ("asthma" ->
// "asthmatic") and retries the substring test. A stem must keep more than
// two characters.
func (r *Resolver) matchesVariant(m string, e ir.ConceptEntry) bool {
	for _, suffix := range r.rules.MorphologicalSuffixes {
		if suffix == "" {
			continue
		}
		if strings.HasSuffix(m, suffix) && len(m) > len(suffix)+2 {
			stem := m[:len(m)-len(suffix)]
			for _, term := range e.Terms() {
				if term != "" && strings.Contains(strings.ToLower(term), stem) {
					return true
				}
			}
		}
		variant := m + suffix
		for _, term := range e.Terms() {
			if overlaps(variant, term) {
				return true
			}
		}
	}
	return false
}

// discoverConceptTable scores every (table, column) pair for how likely
// it is to hold free-text labels of a concept:
//
//	table score  = description weights + alias weights (per alias)
//	column score = column name weights + column description weights
//
// The highest positive total wins; ties keep the first pair seen.
func (r *Resolver) discoverConceptTable() (string, string) {
	rules := r.rules.ConceptTable
	bestTable, bestColumn, bestScore := "", "", 0
	for _, t := range r.schema.Tables() {
		tableScore := rules.Description.Score(t.Description)
		for _, a := range t.Aliases {
			tableScore += rules.Aliases.Score(a)
		}
		for _, c := range t.Columns {
			total := tableScore + rules.ColumnName.Score(c.Name) + rules.ColumnDescription.Score(c.Description)
			if total > bestScore {
				bestTable, bestColumn, bestScore = t.Name, c.Name, total
			}
		}
	}
	if bestTable != "" {
		r.logger.Debug("concept label column discovered",
			"table", bestTable,
			"column", bestColumn,
			"score", bestScore)
	}
	return bestTable, bestColumn
}
