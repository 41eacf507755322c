package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aivia/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                           `json:"valid"`
	Tables   int                            `json:"tables"`
	Concepts int                            `json:"concepts"`
	Errors   []compiler.ValidationError     `json:"errors,omitempty"`
	Warnings []compiler.ConnectivityWarning `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate a planner configuration",
		Long: `Compile and validate a CUE configuration directory: schema, concept
registry, entity types, rule tables and planner settings.

Tables the join graph cannot reach from the default table are reported as
warnings; joins to them degrade at plan time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := LoadConfig(configDir)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.Fail(ExitCommandError, code, msg, nil)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", len(loaded.Files), configDir)

	b := loaded.Bundle
	result := ValidationResult{
		Valid:    true,
		Tables:   b.Schema.Len(),
		Concepts: b.Registry.Len(),
		Errors:   compiler.Validate(b),
	}
	if len(result.Errors) > 0 {
		result.Valid = false
		return outputValidationErrors(formatter, result)
	}
	result.Warnings = compiler.AnalyzeConnectivity(b.Schema, b.Planner.DefaultTable)

	var text strings.Builder
	fmt.Fprintf(&text, "\u2713 Configuration valid (%d tables, %d concepts)\n", result.Tables, result.Concepts)
	for _, w := range result.Warnings {
		fmt.Fprintf(&text, "  warning: %s\n", w.Message)
	}
	return formatter.Success(result, text.String())
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		if err := formatter.Error(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	w := formatter.Writer
	fmt.Fprintln(w, "\u2717 Validation failed")
	fmt.Fprintln(w)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(w, "line %d\n", err.Line)
		}
		fmt.Fprintf(w, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
