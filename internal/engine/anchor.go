package engine

import (
	"slices"
	"strings"

	"github.com/roach88/aivia/internal/resolve"
)

// anchorRule names the precedence rule that chose the anchor.
type anchorRule string

const (
	anchorEntityGrain   anchorRule = "entity table matches row grain"
	anchorFirstEntity   anchorRule = "first entity table"
	anchorValueGrain    anchorRule = "row grain of a value query"
	anchorNegationGrain anchorRule = "row grain of a negation query"
	anchorDefault       anchorRule = "default table"
)

// chooseAnchor applies the anchor precedence:
//
//  1. an entity table equal to the row grain's table
//  2. the first entity table
//  3. value bindings only: the row grain if it is a value grain
//  4. negation bindings only: the row grain if it is a negation grain
//  5. the default table
//
// Grain names are upper-cased and mapped through planner.grain_tables.
// A grain whose table is not in the schema counts as absent.
func (e *Engine) chooseAnchor(b resolve.Bindings, rowGrain string) (string, anchorRule) {
	grain := strings.ToUpper(strings.TrimSpace(rowGrain))
	grainTable := ""
	if grain != "" {
		grainTable = e.planner.GrainTable(grain)
	}

	switch {
	case len(b.Entities) > 0:
		for _, eb := range b.Entities {
			if grainTable != "" && eb.Table == grainTable {
				return grainTable, anchorEntityGrain
			}
		}
		return b.Entities[0].Table, anchorFirstEntity
	case len(b.Values) > 0:
		if e.allowedGrain(e.planner.ValueGrains, grain, grainTable) {
			return grainTable, anchorValueGrain
		}
	case len(b.Negations) > 0:
		if e.allowedGrain(e.planner.NegationGrains, grain, grainTable) {
			return grainTable, anchorNegationGrain
		}
	}
	return e.planner.DefaultTable, anchorDefault
}

func (e *Engine) allowedGrain(grains []string, grain, table string) bool {
	return grain != "" && slices.Contains(grains, grain) && e.schema.HasTable(table)
}
