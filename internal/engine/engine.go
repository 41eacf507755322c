package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/pathplan"
	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/resolve"
	"github.com/roach88/aivia/internal/similarity"
)

// Config holds the static inputs of an Engine. They are treated as
// read-only for the Engine's lifetime.
//
// Schema must be non-nil and must declare Planner.DefaultTable, the
// anchor of last resort. Validate checks both.
type Config struct {
	Schema      *ir.Schema
	Registry    *ir.ConceptRegistry
	EntityTypes ir.EntityTypes
	Rules       ir.Rules
	Planner     ir.PlannerSettings
}

// Validate reports the first precondition Config violates.
func (c Config) Validate() error {
	if c.Schema == nil || c.Schema.Len() == 0 {
		return fmt.Errorf("schema has no tables")
	}
	if c.Planner.DefaultTable == "" {
		return fmt.Errorf("planner default table is empty")
	}
	if !c.Schema.HasTable(c.Planner.DefaultTable) {
		return fmt.Errorf("planner default table %q is not in the schema", c.Planner.DefaultTable)
	}
	return nil
}

// Request is one question to plan.
type Request struct {
	// Question is the original text. It is logged, never parsed.
	Question string `json:"question,omitempty" yaml:"question,omitempty"`

	// RowGrain is the caller's best guess of what one output row is
	// (e.g. "referral", "ENCOUNTER"). Case-insensitive, may be empty.
	RowGrain string `json:"row_grain,omitempty" yaml:"row_grain,omitempty"`

	// Tokens are the extracted concept mentions, in question order.
	Tokens []ir.ConceptToken `json:"tokens" yaml:"tokens"`
}

// Engine synthesizes query plans.
type Engine struct {
	schema   *ir.Schema
	planner  ir.PlannerSettings
	resolver *resolve.Resolver
	adapter  *pathplan.Adapter
	logger   *slog.Logger

	oracle      pathplan.Oracle
	similarity  similarity.Loader
	strictJoins bool

	// configErr is Config.Validate's result; when set every Synthesize
	// call fails with it.
	configErr error
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle sets the path oracle. Default: SchemaOracle over the schema.
func WithOracle(o pathplan.Oracle) Option {
	return func(e *Engine) {
		e.oracle = o
	}
}

// WithSimilarity enables the fuzzy entity fallback. The loader is called
// once per request that has entity tokens; a failure degrades to the
// deterministic matcher with a warning.
func WithSimilarity(l similarity.Loader) Option {
	return func(e *Engine) {
		e.similarity = l
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithStrictJoins overrides planner.strict_joins. When strict, any
// degraded inner join fails the request.
func WithStrictJoins(strict bool) Option {
	return func(e *Engine) {
		e.strictJoins = strict
	}
}

// New creates an Engine. New does not fail: a Config that fails Validate
// yields an Engine whose Synthesize always returns INVALID_CONFIG.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		configErr:   cfg.Validate(),
		schema:      cfg.Schema,
		planner:     cfg.Planner,
		logger:      slog.Default(),
		strictJoins: cfg.Planner.StrictJoins,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.oracle == nil {
		e.oracle = pathplan.SchemaOracle{Schema: cfg.Schema}
	}

	e.resolver = resolve.New(resolve.Config{
		Schema:      cfg.Schema,
		Registry:    cfg.Registry,
		EntityTypes: cfg.EntityTypes,
		Rules:       cfg.Rules,
		Logger:      e.logger,
	})
	e.adapter = pathplan.NewAdapter(e.oracle, cfg.Schema, cfg.Planner.KeyOverrides, e.logger)
	return e
}

// Resolver exposes the engine's resolver for diagnostics.
func (e *Engine) Resolver() *resolve.Resolver {
	return e.resolver
}

// Synthesize plans one request. It returns either a validated plan or a
// *PlanError; never both, never a partial plan.
func (e *Engine) Synthesize(ctx context.Context, req Request) (*queryir.QueryPlan, error) {
	plan, err := e.synthesize(ctx, req)
	recordOutcome(err)
	if err != nil {
		e.logger.Info("plan synthesis failed",
			"question", req.Question,
			"tokens", len(req.Tokens),
			"error", err)
		return nil, err
	}
	recordWarnings(plan.Warnings)
	e.logger.Info("plan synthesized",
		"question", req.Question,
		"from", plan.From,
		"joins", len(plan.Joins),
		"filters", len(plan.Filters),
		"warnings", len(plan.Warnings))
	return plan, nil
}

func (e *Engine) synthesize(ctx context.Context, req Request) (*queryir.QueryPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.configErr != nil {
		return nil, &PlanError{
			Code:    ErrCodeInvalidConfig,
			Stage:   StageConfig,
			Message: e.configErr.Error(),
			Err:     e.configErr,
		}
	}

	classified, err := resolve.Classify(req.Tokens)
	if err != nil {
		return nil, &PlanError{
			Code:    ErrCodeInvalidRequest,
			Stage:   StageRequest,
			Message: err.Error(),
			Err:     err,
		}
	}

	a := &assembly{engine: e}
	idx := e.loadSimilarity(ctx, classified, a)

	b := e.resolver.Resolve(classified, idx)
	recordBindings(b)
	if b.Empty() {
		return nil, newNoBindingsError(len(req.Tokens), a.warnings)
	}
	a.explainBindings(b)

	anchor, rule := e.chooseAnchor(b, req.RowGrain)
	a.explain("anchor %s: %s", anchor, rule)

	return a.build(ctx, anchor, b)
}

// loadSimilarity returns an index for the entity fallback, or nil when
// none is configured, no entity token exists, or loading failed.
func (e *Engine) loadSimilarity(ctx context.Context, c resolve.Classified, a *assembly) similarity.Index {
	if e.similarity == nil || len(c.Entities) == 0 {
		return nil
	}
	idx, err := e.similarity.Load(ctx)
	if err != nil {
		e.logger.Warn("similarity index unavailable", "error", err)
		a.warn(queryir.WarnSimilarityUnavailable, fmt.Sprintf("similarity index unavailable: %v", err))
		return nil
	}
	return idx
}
