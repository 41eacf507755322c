package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aivia/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// HistoryEntry is one recorded request with its plan summary.
type HistoryEntry struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Question    string `json:"question,omitempty"`
	RowGrain    string `json:"row_grain,omitempty"`
	Fingerprint string `json:"fingerprint"`
	From        string `json:"from"`
	Warnings    int    `json:"warnings"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history --db <path>",
		Short: "List recorded plan requests",
		Long: `List the most recent requests recorded by "plan --db", newest first.

Examples:
  aivia history --db plans.db
  aivia history --db plans.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the SQLite plan log (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of requests (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Opening would create an empty log; a missing file is a user error
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB), nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	defer st.Close()

	entries, err := readHistory(ctx, st, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	return formatter.Success(entries, formatHistoryText(entries))
}

func readHistory(ctx context.Context, st *store.Store, limit int) ([]HistoryEntry, error) {
	reqs, err := st.ListRequests(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(reqs))
	for _, r := range reqs {
		plan, err := st.ReadPlan(ctx, r.Fingerprint)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{
			ID:          r.ID,
			Seq:         r.Seq,
			Question:    r.Question,
			RowGrain:    r.RowGrain,
			Fingerprint: r.Fingerprint,
			From:        plan.From,
			Warnings:    plan.WarningCount,
		})
	}
	return entries, nil
}

func formatHistoryText(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return "No recorded requests.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		question := e.Question
		if question == "" {
			question = "(no question)"
		}
		fp := e.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		fmt.Fprintf(&b, "%4d  %s  %-12s  %s  %s\n", e.Seq, e.ID, e.From, fp, question)
		if e.Warnings > 0 {
			fmt.Fprintf(&b, "      %d warning(s)\n", e.Warnings)
		}
	}
	return b.String()
}
