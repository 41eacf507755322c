package resolve

import (
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/similarity"
)

// Config holds the read-only inputs of a Resolver.
type Config struct {
	Schema      *ir.Schema
	Registry    *ir.ConceptRegistry
	EntityTypes ir.EntityTypes
	Rules       ir.Rules
	Logger      *slog.Logger // nil discards
}

// Resolver maps tokens to bindings. Immutable after New.
type Resolver struct {
	schema      *ir.Schema
	registry    *ir.ConceptRegistry
	entityTypes ir.EntityTypes
	rules       ir.Rules
	logger      *slog.Logger

	lookupTables   []string          // category tables, declaration order
	lookupSet      map[string]bool   // same, for membership
	conceptTable   string            // best free-text label table ("" if none)
	conceptColumn  string            // its label column
	negationOwners map[string]string // indicator (and plural) -> first owning table
}

// New precomputes the schema-derived lookups.
func New(cfg Config) *Resolver {
	r := &Resolver{
		schema:      cfg.Schema,
		registry:    cfg.Registry,
		entityTypes: cfg.EntityTypes,
		rules:       cfg.Rules,
		logger:      cfg.Logger,
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.registry == nil {
		r.registry = ir.NewConceptRegistry()
	}
	r.lookupTables, r.lookupSet = r.discoverLookupTables()
	r.conceptTable, r.conceptColumn = r.discoverConceptTable()
	r.negationOwners = r.buildNegationOwners()
	return r
}

// Bindings is everything resolved for one request.
type Bindings struct {
	Entities  []ir.EntityBinding
	Values    []ir.ValueBinding
	Negations []ir.NegationBinding
	Temporal  []ir.TemporalBinding
}

// Empty reports whether no entity, value or negation binding exists.
// Temporal bindings alone do not make a plan.
func (b Bindings) Empty() bool {
	return len(b.Entities) == 0 && len(b.Values) == 0 && len(b.Negations) == 0
}

// Resolve runs every resolver over the classified tokens. idx may be nil.
func (r *Resolver) Resolve(c Classified, idx similarity.Index) Bindings {
	entities := r.MatchEntities(c.Entities, idx)
	return Bindings{
		Entities:  entities,
		Values:    r.ResolveValues(c.Values, c.EntityMentions(), entities),
		Negations: r.ResolveNegations(c.Negations),
		Temporal:  r.ResolveTemporal(c.TimeWindows),
	}
}

// LookupTables returns the category lookup tables in declaration order.
func (r *Resolver) LookupTables() []string {
	return append([]string(nil), r.lookupTables...)
}

// ConceptTarget returns the table and column that hold concept labels.
func (r *Resolver) ConceptTarget() (table, column string, ok bool) {
	return r.conceptTable, r.conceptColumn, r.conceptTable != ""
}

func (r *Resolver) discoverLookupTables() ([]string, map[string]bool) {
	var tables []string
	set := make(map[string]bool)
	for _, t := range r.schema.Tables() {
		if MatchTablePattern(r.rules.Lookup.TablePattern, t.Name) && t.HasColumn(r.rules.Lookup.LabelColumn) {
			tables = append(tables, t.Name)
			set[t.Name] = true
		}
	}
	return tables, set
}

func normalizeMention(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
