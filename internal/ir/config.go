package ir

import "strings"

// KeywordWeights maps a lower-case keyword to the weight it contributes
// when found as a substring.
type KeywordWeights map[string]int

// Score sums the weights of every keyword contained in text.
// text is lower-cased first.
func (k KeywordWeights) Score(text string) int {
	if text == "" {
		return 0
	}
	text = strings.ToLower(text)
	total := 0
	for kw, w := range k {
		if kw != "" && strings.Contains(text, kw) {
			total += w
		}
	}
	return total
}

// ConceptTableRules score tables and columns that hold free-text labels of
// a concept kind (diagnosis-like tables).
type ConceptTableRules struct {
	Description       KeywordWeights `json:"description"`
	Aliases           KeywordWeights `json:"aliases"`
	ColumnName        KeywordWeights `json:"column_name"`
	ColumnDescription KeywordWeights `json:"column_description"`
}

// LookupRules identify category lookup tables.
type LookupRules struct {
	TablePattern string `json:"table_pattern"`
	LabelColumn  string `json:"label_column"`
}

// CategoryScoring weights semantic evidence for a lookup table.
type CategoryScoring struct {
	ValueIndicator int `json:"value_indicator"`
	EntityExact    int `json:"entity_exact"`
	EntityPartial  int `json:"entity_partial"`
}

// ContextBoost adds Boost to the lookup tables of EntityType when every
// indicator in Requires occurs among the entity tokens.
type ContextBoost struct {
	Requires   []string `json:"requires"`
	EntityType string   `json:"entity_type"`
	Boost      int      `json:"boost"`
}

// VocabularyRule routes well-known status words to a lookup table.
type VocabularyRule struct {
	Terms []string `json:"terms"`
	Table string   `json:"table"`
}

// Rules is every weighted rule table the resolvers consult. New domains
// are added by configuration, not code.
type Rules struct {
	ConceptTable          ConceptTableRules `json:"concept_table"`
	MorphologicalSuffixes []string          `json:"morphological_suffixes"`
	Lookup                LookupRules       `json:"lookup"`
	Category              CategoryScoring   `json:"category"`
	ContextBoosts         []ContextBoost    `json:"context_boosts"`
	StatusVocabulary      []VocabularyRule  `json:"status_vocabulary"`
	TokenHints            map[string]string `json:"token_hints"`
	NegationPrefixes      []string          `json:"negation_prefixes"`
}

// DefaultRules returns the clinical rule tables.
func DefaultRules() Rules {
	diagnosis := []string{"diagnosis", "diagnostic", "condition", "disease", "medical", "clinical"}
	labels := []string{"name", "description", "text", "title", "label"}
	return Rules{
		ConceptTable: ConceptTableRules{
			Description:       weights(diagnosis, 2),
			Aliases:           weights(diagnosis, 1),
			ColumnName:        weights(labels, 2),
			ColumnDescription: weights(labels, 1),
		},
		MorphologicalSuffixes: []string{"ic", "tic", "al", "ous", "ive", "ism", "osis", "itis", "emia", "uria"},
		Lookup:                LookupRules{TablePattern: "ZC_*", LabelColumn: "NAME"},
		Category:              CategoryScoring{ValueIndicator: 10, EntityExact: 10, EntityPartial: 5},
		ContextBoosts: []ContextBoost{
			{Requires: []string{"appointment", "referral"}, EntityType: "appointment", Boost: 15},
		},
		StatusVocabulary: []VocabularyRule{
			{Terms: []string{"open", "closed", "declined", "in progress"}, Table: "ZC_RFL_STATUS"},
		},
		TokenHints: map[string]string{
			"scheduled": "ZC_APPT_STATUS",
			"cancelled": "ZC_APPT_STATUS",
			"completed": "ZC_APPT_STATUS",
			"no show":   "ZC_APPT_STATUS",
			"arrived":   "ZC_APPT_STATUS",
			"pending":   "ZC_RFL_STATUS",
			"approved":  "ZC_RFL_STATUS",
			"rejected":  "ZC_RFL_STATUS",
		},
		NegationPrefixes: []string{"no ", "without ", "missing ", "not "},
	}
}

func weights(keywords []string, w int) KeywordWeights {
	out := make(KeywordWeights, len(keywords))
	for _, k := range keywords {
		out[k] = w
	}
	return out
}

// PlannerSettings configure anchor selection, date columns and select
// aliasing.
type PlannerSettings struct {
	DefaultTable      string            `json:"default_table"`
	ValueGrains       []string          `json:"value_grains"`
	NegationGrains    []string          `json:"negation_grains"`
	GrainTables       map[string]string `json:"grain_tables"`
	DateColumns       map[string]string `json:"date_columns"`
	DefaultDateColumn string            `json:"default_date_column"`
	SelectAliases     map[string]string `json:"select_aliases"`
	KeyOverrides      map[string]string `json:"key_overrides"`
	StrictJoins       bool              `json:"strict_joins"`
}

// DefaultPlannerSettings returns the clinical planner settings.
func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{
		DefaultTable:   "PATIENT",
		ValueGrains:    []string{"REFERRAL", "PATIENT", "ENCOUNTER", "APPOINTMENT", "PROVIDER", "DEPARTMENT"},
		NegationGrains: []string{"REFERRAL", "PATIENT", "ENCOUNTER"},
		GrainTables: map[string]string{
			"ENCOUNTER":   "PAT_ENC",
			"APPOINTMENT": "F_SCHED_APPT",
			"PROVIDER":    "CLARITY_SER",
		},
		DateColumns: map[string]string{
			"PAT_ENC":  "CONTACT_DATE",
			"REFERRAL": "REFERRAL_DATE",
		},
		DefaultDateColumn: "CONTACT_DATE",
		SelectAliases: map[string]string{
			"PAT_ENC":  "PAT_ENC_ID",
			"REFERRAL": "REFERRAL_ID",
			"PATIENT":  "PATIENT_ID",
		},
		KeyOverrides: map[string]string{
			"PAT_ENC":     "PAT_ENC_CSN_ID",
			"REFERRAL":    "REFERRAL_ID",
			"PATIENT":     "PAT_ID",
			"CLARITY_SER": "PROV_ID",
		},
	}
}

// GrainTable maps an upper-cased row grain to its table.
func (p PlannerSettings) GrainTable(grain string) string {
	if t, ok := p.GrainTables[grain]; ok {
		return t
	}
	return grain
}

// DateColumn returns the date column for table.
func (p PlannerSettings) DateColumn(table string) string {
	if c, ok := p.DateColumns[table]; ok {
		return c
	}
	return p.DefaultDateColumn
}
