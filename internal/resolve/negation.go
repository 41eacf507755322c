package resolve

import (
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// ResolveNegations binds negation phrases ("no referral") to the table
// owning the negated concept. Phrases without a known prefix, or whose
// concept has no owner, are dropped.
func (r *Resolver) ResolveNegations(tokens []ir.ConceptToken) []ir.NegationBinding {
	var out []ir.NegationBinding
	for _, tok := range tokens {
		concept, ok := r.NegatedConcept(tok.Mention)
		if !ok {
			r.logger.Debug("negation without known prefix dropped", "token", tok.Mention)
			continue
		}
		table, ok := r.NegationTable(concept)
		if !ok {
			r.logger.Debug("negated concept has no owning table", "token", tok.Mention, "concept", concept)
			continue
		}
		out = append(out, ir.NegationBinding{Concept: concept, Table: table, Pattern: tok.Mention})
	}
	return out
}

// NegatedConcept strips a negation prefix and normalizes the remainder to
// the first entity-type semantic indicator it contains. Without an
// indicator the stripped text itself is the concept.
func (r *Resolver) NegatedConcept(phrase string) (string, bool) {
	trimmed := strings.TrimSpace(phrase)
	lower := strings.ToLower(trimmed)
	for _, prefix := range r.rules.NegationPrefixes {
		if prefix == "" || !strings.HasPrefix(lower, strings.ToLower(prefix)) {
			continue
		}
		candidate := strings.TrimSpace(trimmed[len(prefix):])
		if candidate == "" {
			return "", false
		}
		cl := strings.ToLower(candidate)
		for _, et := range r.entityTypes {
			for _, ind := range et.SemanticIndicators {
				if ind != "" && strings.Contains(cl, strings.ToLower(ind)) {
					return ind, true
				}
			}
		}
		return candidate, true
	}
	return "", false
}

// NegationTable finds the owner of a negated concept: first the indicator
// map built from entity-type table patterns (singular and plural), then
// alias overlap in declaration order.
func (r *Resolver) NegationTable(concept string) (string, bool) {
	c := normalizeMention(concept)
	if t, ok := r.negationOwners[c]; ok {
		return t, true
	}
	for _, t := range r.schema.Tables() {
		for _, a := range t.Aliases {
			if overlaps(c, a) {
				return t.Name, true
			}
		}
	}
	return "", false
}

// buildNegationOwners maps every semantic indicator, and its plural, to
// the first non-lookup table its entity type's patterns match.
func (r *Resolver) buildNegationOwners() map[string]string {
	owners := make(map[string]string)
	for _, t := range r.schema.Tables() {
		if r.lookupSet[t.Name] {
			continue
		}
		for _, et := range r.entityTypes {
			if !matchesAny(et.TablePatterns, t.Name) {
				continue
			}
			for _, ind := range et.SemanticIndicators {
				ind = strings.ToLower(ind)
				if ind == "" {
					continue
				}
				if _, ok := owners[ind]; !ok {
					owners[ind] = t.Name
				}
				if _, ok := owners[ind+"s"]; !ok {
					owners[ind+"s"] = t.Name
				}
			}
		}
	}
	return owners
}
