package pathplan

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/resolve"
)

// Adapter asks an Oracle for join paths and converts the answers into
// plan joins.
type Adapter struct {
	oracle       Oracle
	schema       *ir.Schema
	keyOverrides map[string]string
	logger       *slog.Logger
}

// NewAdapter builds an adapter. keyOverrides feed the primary-key lookup
// used for substituted predicates. A nil logger discards.
func NewAdapter(o Oracle, schema *ir.Schema, keyOverrides map[string]string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{oracle: o, schema: schema, keyOverrides: keyOverrides, logger: logger}
}

// Outcome is the result of one Plan call.
type Outcome struct {
	Joins    []queryir.JoinSpec
	Warnings []queryir.Warning
	// Degraded is set when the oracle failed or a predicate was
	// substituted.
	Degraded bool
}

// Plan completes the path from anchor to targets and returns joins of the
// given type. Edges whose target is already in planned are skipped, so
// callers can plan inner joins first and left joins after without
// duplicating edges. planned is not modified.
//
// An oracle failure yields no joins and a warning. It is never returned
// as an error; callers decide whether a degradation is fatal.
func (a *Adapter) Plan(ctx context.Context, anchor string, targets []Target, joinType queryir.JoinType, planned map[string]bool) Outcome {
	var out Outcome
	if len(targets) == 0 {
		return out
	}

	req := Request{Anchor: anchor, Targets: targets}
	res, err := a.oracle.CompletePath(ctx, req)
	if err != nil {
		a.logger.Warn("path planning failed",
			"anchor", anchor,
			"targets", len(targets),
			"join_type", string(joinType),
			"error", err)
		out.Degraded = true
		out.Warnings = append(out.Warnings, queryir.Warning{
			Code:    queryir.WarnPathPlanningDegraded,
			Message: fmt.Sprintf("path oracle failed for %s joins from %s: %v", joinType, anchor, err),
		})
		return out
	}

	seen := make(map[string]bool, len(planned))
	for t := range planned {
		seen[t] = true
	}
	seen[anchor] = true

	for _, e := range res.Edges {
		if seen[e.Target] {
			continue
		}
		pred, ok := res.Predicate(e)
		if !ok {
			pred = a.defaultPredicate(e)
			out.Degraded = true
			out.Warnings = append(out.Warnings, queryir.Warning{
				Code:    queryir.WarnPathPlanningDegraded,
				Message: fmt.Sprintf("no predicate for %s; substituted %s", e.Key(), pred),
			})
			a.logger.Warn("join predicate substituted",
				"edge", e.Key(),
				"predicate", pred,
				"resolver", res.ResolverID)
		}
		seen[e.Target] = true
		out.Joins = append(out.Joins, queryir.JoinSpec{
			SourceTable: e.Source,
			TargetTable: e.Target,
			Predicate:   pred,
			JoinType:    joinType,
		})
	}

	a.logger.Debug("path planned",
		"anchor", anchor,
		"join_type", string(joinType),
		"joins", len(out.Joins),
		"resolver", res.ResolverID,
		"cost", res.Cost)
	return out
}

// defaultPredicate is equality on the primary keys of both ends.
func (a *Adapter) defaultPredicate(e Edge) string {
	return fmt.Sprintf("%s = %s",
		ir.Qualify(e.Target, resolve.PrimaryKey(a.schema, e.Target, a.keyOverrides)),
		ir.Qualify(e.Source, resolve.PrimaryKey(a.schema, e.Source, a.keyOverrides)))
}
