package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aivia/internal/compiler"
	"github.com/roach88/aivia/internal/engine"
	"github.com/roach88/aivia/internal/harness"
	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/pathplan"
	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/querysql"
	"github.com/roach88/aivia/internal/similarity"
	"github.com/roach88/aivia/internal/store"
)

// oracleCacheSize bounds the ARC cache in front of the schema oracle.
const oracleCacheSize = 256

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Grain   string // overrides the request's row_grain
	SQL     bool   // render the plan as SQL
	DB      string // plan log path; empty disables recording
	Strict  bool   // make degraded inner joins fatal
	Metrics bool   // dump engine counters to stderr after synthesis
}

// PlanOutput is the JSON payload of a successful plan.
type PlanOutput struct {
	Plan        *queryir.QueryPlan `json:"plan"`
	Fingerprint string             `json:"fingerprint"`
	SQL         string             `json:"sql,omitempty"`
	Args        []any              `json:"args,omitempty"`
	RequestID   string             `json:"request_id,omitempty"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <config-dir> <request-file>",
		Short: "Synthesize a query plan for one request",
		Long: `Synthesize a query plan from a request file (YAML or JSON) holding the
question, optional row_grain and extracted tokens.

Exit codes:
  0 - Plan synthesized
  1 - Synthesis failed (no bindings, inconsistent plan, strict join failure)
  2 - Command error (invalid paths, malformed request, etc.)

Examples:
  aivia plan ./config request.yaml
  aivia plan ./config request.yaml --grain referral --sql
  aivia plan ./config request.yaml --db plans.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Grain, "grain", "", "row grain override (e.g. referral, encounter)")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "render the plan as SQL")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the plan in this SQLite plan log")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when a required join cannot be planned")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write engine counters to stderr (Prometheus text format)")

	return cmd
}

func runPlan(opts *PlanOptions, configDir, requestPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loaded, err := LoadConfig(configDir)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.Fail(ExitCommandError, code, msg, nil)
	}
	if verrs := compiler.Validate(loaded.Bundle); len(verrs) > 0 {
		return formatter.Fail(ExitCommandError, verrs[0].Code, verrs[0].Message, verrs)
	}
	formatter.VerboseLog("Loaded %d CUE file(s) from %s", len(loaded.Files), configDir)

	req, err := LoadRequest(requestPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadRequest, err.Error(), nil)
	}
	if opts.Grain != "" {
		req.RowGrain = opts.Grain
	}

	eng, err := newEngine(loaded.Bundle, opts.Strict)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	plan, err := eng.Synthesize(ctx, req)
	if opts.Metrics {
		if werr := engine.WriteMetrics(formatter.GetErrWriter(), nil); werr != nil {
			slog.Warn("metrics dump failed", slog.String("error", werr.Error()))
		}
	}
	if err != nil {
		var pe *engine.PlanError
		if errors.As(err, &pe) {
			return formatter.Fail(ExitFailure, string(pe.Code), pe.Message, pe.Details)
		}
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	out := PlanOutput{Plan: plan}
	if out.Fingerprint, err = plan.Fingerprint(); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	if opts.SQL {
		out.SQL, out.Args, err = querysql.NewSQLCompiler().Compile(plan)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
		}
	}

	if opts.DB != "" {
		out.RequestID, err = recordPlan(ctx, opts.DB, loaded.Bundle.Schema, plan, req)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		formatter.VerboseLog("Recorded request %s in %s", out.RequestID, opts.DB)
	}

	return formatter.Success(out, formatPlanText(out))
}

// newEngine wires the production collaborators: cached schema oracle and
// the Levenshtein similarity index over table names and aliases.
func newEngine(b *compiler.Bundle, strict bool) (*engine.Engine, error) {
	oracle, err := pathplan.NewCachedOracle(pathplan.SchemaOracle{Schema: b.Schema}, oracleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create path oracle: %w", err)
	}
	opts := []engine.Option{
		engine.WithLogger(slog.Default()),
		engine.WithOracle(oracle),
		engine.WithSimilarity(similarity.SchemaLoader{Schema: b.Schema}),
	}
	if strict {
		opts = append(opts, engine.WithStrictJoins(true))
	}
	return engine.New(harness.EngineConfig(b), opts...), nil
}

func recordPlan(ctx context.Context, path string, schema *ir.Schema, plan *queryir.QueryPlan, req engine.Request) (string, error) {
	schemaHash, err := ir.SchemaHash(schema)
	if err != nil {
		return "", fmt.Errorf("hash schema: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	id, _, err := st.RecordPlan(ctx, plan, store.RequestMeta{
		Question:   req.Question,
		RowGrain:   req.RowGrain,
		SchemaHash: schemaHash,
	})
	return id, err
}

func formatPlanText(out PlanOutput) string {
	var b strings.Builder
	plan := out.Plan
	fmt.Fprintf(&b, "Plan %s\n", out.Fingerprint)
	fmt.Fprintf(&b, "  from:   %s\n", plan.From)
	for _, j := range plan.Joins {
		fmt.Fprintf(&b, "  join:   %s\n", j)
	}
	for _, f := range plan.Filters {
		fmt.Fprintf(&b, "  filter: %s %s\n", f.Kind(), strings.Join(f.AppliesTo(), ", "))
	}
	for _, c := range plan.Select {
		fmt.Fprintf(&b, "  select: %s.%s AS %s\n", c.Table, c.Column, c.Alias)
	}
	for _, w := range plan.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	if len(plan.Explanation) > 0 {
		b.WriteString("\nExplanation:\n")
		for _, line := range plan.Explanation {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}
	if out.SQL != "" {
		fmt.Fprintf(&b, "\nSQL:\n  %s\n", out.SQL)
		if len(out.Args) > 0 {
			fmt.Fprintf(&b, "  args: %v\n", out.Args)
		}
	}
	if out.RequestID != "" {
		fmt.Fprintf(&b, "\nRecorded as %s\n", out.RequestID)
	}
	return b.String()
}
