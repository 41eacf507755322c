package resolve

import (
	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/similarity"
)

// MatchEntities maps each entity token to the first table whose alias (or,
// for tables without aliases, whose name) overlaps the mention,
// case-insensitively and in either direction. Tables are scanned in
// declaration order.
//
// When idx is non-nil it is consulted only for tokens with no deterministic
// match. Unmatched tokens are dropped.
func (r *Resolver) MatchEntities(tokens []ir.ConceptToken, idx similarity.Index) []ir.EntityBinding {
	var out []ir.EntityBinding
	for _, tok := range tokens {
		if table, ok := r.matchTable(tok.Mention); ok {
			out = append(out, ir.EntityBinding{Token: tok.Mention, Table: table, Score: ir.ScoreEntity})
			continue
		}
		if idx != nil {
			if m, ok := idx.Nearest(tok.Mention); ok && r.schema.HasTable(m.Table) {
				r.logger.Debug("entity matched by similarity",
					"token", tok.Mention,
					"table", m.Table,
					"term", m.Term,
					"distance", m.Distance)
				out = append(out, ir.EntityBinding{Token: tok.Mention, Table: m.Table, Score: ir.ScoreSimilarity})
				continue
			}
		}
		r.logger.Debug("entity token dropped", "token", tok.Mention)
	}
	return out
}

func (r *Resolver) matchTable(mention string) (string, bool) {
	for _, t := range r.schema.Tables() {
		if tableMatches(mention, t) {
			return t.Name, true
		}
	}
	return "", false
}

func tableMatches(mention string, t *ir.SchemaTable) bool {
	if len(t.Aliases) == 0 {
		return overlaps(mention, t.Name)
	}
	for _, a := range t.Aliases {
		if overlaps(mention, a) {
			return true
		}
	}
	return false
}
