package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/aivia/internal/compiler"
	"github.com/roach88/aivia/internal/engine"
)

// Harness runs scenarios against one configuration.
//
// Thread-safety: a Harness is safe for concurrent use; the engine it wraps
// is immutable.
type Harness struct {
	engine *engine.Engine
	logger *slog.Logger
}

// EngineConfig converts a compiled configuration bundle into engine inputs.
func EngineConfig(b *compiler.Bundle) engine.Config {
	return engine.Config{
		Schema:      b.Schema,
		Registry:    b.Registry,
		EntityTypes: b.EntityTypes,
		Rules:       b.Rules,
		Planner:     b.Planner,
	}
}

// New creates a harness over a compiled bundle. Engine logs are
// suppressed unless an engine.WithLogger option is passed.
func New(b *compiler.Bundle, opts ...engine.Option) *Harness {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]engine.Option{engine.WithLogger(quiet)}, opts...)
	return &Harness{
		engine: engine.New(EngineConfig(b), opts...),
		logger: quiet,
	}
}

// WithLogger sets the harness logger.
func (h *Harness) WithLogger(l *slog.Logger) *Harness {
	h.logger = l
	return h
}

// Run synthesizes the scenario's request and evaluates its expectations.
//
// A PlanError is an outcome, not a harness failure: it is recorded in
// Result.ErrorCode and compared with expect.error. Any other error (for
// example a canceled context) is returned.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	plan, err := h.engine.Synthesize(ctx, scenario.Request())
	if err != nil {
		var pe *engine.PlanError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.ErrorCode = string(pe.Code)
	}
	result.Plan = plan

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"error_code", result.ErrorCode,
	)
	return result, nil
}
