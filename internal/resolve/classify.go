package resolve

import (
	"fmt"

	"github.com/roach88/aivia/internal/ir"
)

// Classified groups tokens by the resolver that consumes them, keeping
// input order within each group.
type Classified struct {
	Entities    []ir.ConceptToken
	Values      []ir.ConceptToken
	Negations   []ir.ConceptToken
	TimeWindows []ir.ConceptToken
}

// Empty reports whether no token survived classification.
func (c Classified) Empty() bool {
	return len(c.Entities)+len(c.Values)+len(c.Negations)+len(c.TimeWindows) == 0
}

// EntityMentions returns the lower-cased mentions of entity tokens.
func (c Classified) EntityMentions() []string {
	out := make([]string, 0, len(c.Entities))
	for _, t := range c.Entities {
		out = append(out, normalizeMention(t.Mention))
	}
	return out
}

// TokenError reports a token with a type the synthesizer does not know.
type TokenError struct {
	Index int
	Type  ir.TokenType
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("tokens[%d]: unknown token type %q", e.Index, e.Type)
}

// Classify sorts tokens into resolver groups:
//
//	entity, location, provider, attribute -> Entities
//	value, condition                      -> Values
//	negation                              -> Negations
//	time_window                           -> TimeWindows
//
// Blank mentions are dropped, except for time windows whose content lives
// in the normalized structure.
func Classify(tokens []ir.ConceptToken) (Classified, error) {
	var c Classified
	for i, tok := range tokens {
		if !tok.Type.IsValid() {
			return Classified{}, &TokenError{Index: i, Type: tok.Type}
		}
		if tok.Type == ir.TokenTimeWindow {
			c.TimeWindows = append(c.TimeWindows, tok)
			continue
		}
		if tok.IsBlank() {
			continue
		}
		switch tok.Type {
		case ir.TokenEntity, ir.TokenLocation, ir.TokenProvider, ir.TokenAttribute:
			c.Entities = append(c.Entities, tok)
		case ir.TokenValue, ir.TokenCondition:
			c.Values = append(c.Values, tok)
		case ir.TokenNegation:
			c.Negations = append(c.Negations, tok)
		}
	}
	return c, nil
}
