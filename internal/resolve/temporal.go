package resolve

import (
	"math"
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// CoercedWindow is the window used for absolute ranges, which are not yet
// carried through to the plan.
var CoercedWindow = ir.RelativeWindow{Unit: ir.UnitMonth, Value: 1, Direction: ir.DirectionPast}

// ResolveTemporal reads the extractor-normalized structure of each
// time-window token. Accepted shapes:
//
//	{relative: {unit: "month", value: 3, direction: "past"}}
//	{rel: {unit: "month", value: -3}}        negative value = past
//	{absolute: ["2024-01-01", "2024-03-31"]} coerced to CoercedWindow
//
// Tokens without a usable window are dropped. The applies-to column is
// bound later by the assembler.
func (r *Resolver) ResolveTemporal(tokens []ir.ConceptToken) []ir.TemporalBinding {
	var out []ir.TemporalBinding
	for _, tok := range tokens {
		w, coerced, ok := parseWindow(tok.Normalized)
		if !ok {
			r.logger.Debug("time window dropped", "token", tok.Mention)
			continue
		}
		if coerced {
			r.logger.Info("absolute time window coerced to relative",
				"token", tok.Mention,
				"window", w.String())
		}
		out = append(out, ir.TemporalBinding{Token: tok.Mention, Window: w, Coerced: coerced})
	}
	return out
}

func parseWindow(n map[string]any) (ir.RelativeWindow, bool, bool) {
	if n == nil {
		return ir.RelativeWindow{}, false, false
	}
	if rel, ok := n["relative"].(map[string]any); ok {
		w, ok := parseRelative(rel, false)
		return w, false, ok
	}
	if rel, ok := n["rel"].(map[string]any); ok {
		w, ok := parseRelative(rel, true)
		return w, false, ok
	}
	if abs, ok := n["absolute"]; ok && abs != nil {
		return CoercedWindow, true, true
	}
	return ir.RelativeWindow{}, false, false
}

// parseRelative reads {unit, value, direction}. With signed set, the sign
// of value carries the direction and an explicit direction is ignored.
func parseRelative(m map[string]any, signed bool) (ir.RelativeWindow, bool) {
	unitStr, _ := m["unit"].(string)
	unit, ok := ir.ParseTimeUnit(strings.ToLower(strings.TrimSpace(unitStr)))
	if !ok {
		return ir.RelativeWindow{}, false
	}
	value, ok := toInt(m["value"])
	if !ok || value == 0 {
		return ir.RelativeWindow{}, false
	}

	dir := ir.DirectionPast
	if signed {
		if value > 0 {
			dir = ir.DirectionFuture
		}
	} else if d, _ := m["direction"].(string); d != "" {
		switch ir.Direction(strings.ToLower(d)) {
		case ir.DirectionPast:
		case ir.DirectionFuture:
			dir = ir.DirectionFuture
		default:
			return ir.RelativeWindow{}, false
		}
	}
	if value < 0 {
		value = -value
	}
	return ir.RelativeWindow{Unit: unit, Value: value, Direction: dir}, true
}

// toInt accepts the integer shapes YAML and JSON decoders produce. Floats
// must be whole numbers.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
