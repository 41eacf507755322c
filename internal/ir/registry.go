package ir

// ConceptEntry is one canonical domain concept with its synonyms.
type ConceptEntry struct {
	PreferredTerm string   `json:"preferred_term"`
	Synonyms      []string `json:"synonyms,omitempty"`
}

// Terms returns the preferred term followed by the synonyms.
func (c ConceptEntry) Terms() []string {
	out := make([]string, 0, 1+len(c.Synonyms))
	out = append(out, c.PreferredTerm)
	return append(out, c.Synonyms...)
}

// ConceptRegistry is the read-only concept registry. Entries keep
// declaration order; lookups return the first entry that matches.
type ConceptRegistry struct {
	Entries []ConceptEntry `json:"entries"`
}

// NewConceptRegistry builds a registry from entries in order.
func NewConceptRegistry(entries ...ConceptEntry) *ConceptRegistry {
	return &ConceptRegistry{Entries: append([]ConceptEntry(nil), entries...)}
}

// Len returns the number of concepts.
func (r *ConceptRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// EntityTypeConfig drives negation-table and category-table discovery for
// one domain entity type (e.g. "appointment", "referral").
type EntityTypeConfig struct {
	Name               string   `json:"name"`
	SemanticIndicators []string `json:"semantic_indicators"`
	TablePatterns      []string `json:"table_patterns"`
}

// EntityTypes is the ordered set of entity type configs.
type EntityTypes []EntityTypeConfig

// Lookup returns the config with the given name.
func (e EntityTypes) Lookup(name string) (EntityTypeConfig, bool) {
	for _, c := range e {
		if c.Name == name {
			return c, true
		}
	}
	return EntityTypeConfig{}, false
}
