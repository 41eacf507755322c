package resolve

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeCategoryValue capitalizes each word of a mention: "no show"
// becomes "No Show". Internal whitespace collapses to single spaces.
func NormalizeCategoryValue(mention string) string {
	words := strings.Fields(strings.ToLower(mention))
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// SelectCategoryTable picks the lookup table for a category value.
// Evidence is tried in order:
//
//	(a) entity-type scoring: value-indicator hits, entity-token exact and
//	    partial hits, plus context boosts; highest positive score wins
//	(b) status vocabulary
//	(c) a lookup table joined directly to a matched entity table
//	(d) token hints
//	(e) the first lookup table, only when entity context exists
//
// ok is false when no lookup table exists or no evidence applies.
func (r *Resolver) SelectCategoryTable(value string, entityMentions, entityTables []string) (string, bool) {
	if len(r.lookupTables) == 0 {
		return "", false
	}
	v := normalizeMention(value)

	best, bestScore := "", 0
	for _, lt := range r.lookupTables {
		if s := r.categoryScore(lt, v, entityMentions); s > bestScore {
			best, bestScore = lt, s
		}
	}
	if best != "" {
		r.logger.Debug("category table scored", "value", value, "table", best, "score", bestScore)
		return best, true
	}

	for _, rule := range r.rules.StatusVocabulary {
		for _, term := range rule.Terms {
			if term != "" && strings.Contains(v, strings.ToLower(term)) && r.lookupSet[rule.Table] {
				return rule.Table, true
			}
		}
	}

	for _, lt := range r.lookupTables {
		for _, j := range r.schema.Neighbors(lt) {
			other := j.LeftTable
			if other == lt {
				other = j.RightTable
			}
			for _, et := range entityTables {
				if et == other {
					return lt, true
				}
			}
		}
	}

	if hint, ok := r.rules.TokenHints[v]; ok && r.lookupSet[hint] {
		return hint, true
	}

	if len(entityMentions) > 0 {
		return r.lookupTables[0], true
	}
	return "", false
}

// categoryScore sums the semantic evidence tying lookup table lt to the
// value and the entity mentions.
func (r *Resolver) categoryScore(lt, value string, mentions []string) int {
	weights := r.rules.Category
	score := 0
	for _, et := range r.entityTypes {
		if !matchesAny(et.TablePatterns, lt) {
			continue
		}
		for _, ind := range et.SemanticIndicators {
			ind = strings.ToLower(ind)
			if ind == "" {
				continue
			}
			if strings.Contains(value, ind) {
				score += weights.ValueIndicator
			}
			for _, m := range mentions {
				switch {
				case m == ind || m == ind+"s":
					score += weights.EntityExact
				case overlaps(m, ind):
					score += weights.EntityPartial
				}
			}
		}
	}
	for _, boost := range r.rules.ContextBoosts {
		et, ok := r.entityTypes.Lookup(boost.EntityType)
		if !ok || !matchesAny(et.TablePatterns, lt) {
			continue
		}
		if allMentioned(boost.Requires, mentions) {
			score += boost.Boost
		}
	}
	return score
}

// allMentioned reports whether every required word occurs in some mention.
func allMentioned(required, mentions []string) bool {
	if len(required) == 0 {
		return false
	}
	for _, req := range required {
		req = strings.ToLower(req)
		found := false
		for _, m := range mentions {
			if strings.Contains(m, req) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
