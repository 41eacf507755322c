// Package similarity provides the fuzzy label index consulted when the
// deterministic entity matcher finds nothing.
//
// The index is an optional collaborator: a Loader may fail, and callers
// must fall back to the deterministic path when it does.
package similarity

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/aivia/internal/ir"
)

// ErrUnavailable is returned by loaders that have no index to offer.
var ErrUnavailable = errors.New("similarity index unavailable")

// Match is the nearest indexed term for a query.
type Match struct {
	Table    string
	Term     string
	Distance int
}

// Index answers nearest-term queries.
type Index interface {
	Nearest(term string) (Match, bool)
}

// Loader produces an Index. Load may block and may fail.
type Loader interface {
	Load(ctx context.Context) (Index, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Index, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (Index, error) {
	return f(ctx)
}

type entry struct {
	term  string
	table string
}

// LevenshteinIndex matches terms against table aliases and names by edit
// distance. Entries keep schema declaration order; the first entry at the
// minimum distance wins.
type LevenshteinIndex struct {
	entries []entry
}

// NewLevenshteinIndex indexes every alias and table name of schema.
func NewLevenshteinIndex(schema *ir.Schema) *LevenshteinIndex {
	ix := &LevenshteinIndex{}
	for _, t := range schema.Tables() {
		for _, a := range t.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				ix.entries = append(ix.entries, entry{term: a, table: t.Name})
			}
		}
		ix.entries = append(ix.entries, entry{term: strings.ToLower(t.Name), table: t.Name})
	}
	return ix
}

// Len returns the number of indexed terms.
func (ix *LevenshteinIndex) Len() int {
	return len(ix.entries)
}

// Nearest returns the closest indexed term. A match is accepted only when
// its distance is at most max(1, len(term)/4).
func (ix *LevenshteinIndex) Nearest(term string) (Match, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return Match{}, false
	}
	limit := max(1, utf8.RuneCountInString(term)/4)

	best := Match{Distance: -1}
	for _, e := range ix.entries {
		d := levenshtein.ComputeDistance(term, e.term)
		if d > limit {
			continue
		}
		if best.Distance < 0 || d < best.Distance {
			best = Match{Table: e.table, Term: e.term, Distance: d}
		}
	}
	if best.Distance < 0 {
		return Match{}, false
	}
	return best, true
}

// SchemaLoader builds a LevenshteinIndex from a schema.
type SchemaLoader struct {
	Schema *ir.Schema
}

// Load builds the index. It fails with ErrUnavailable for an empty schema.
func (l SchemaLoader) Load(ctx context.Context) (Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Schema.Len() == 0 {
		return nil, ErrUnavailable
	}
	return NewLevenshteinIndex(l.Schema), nil
}
