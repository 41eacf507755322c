package harness

import (
	"github.com/roach88/aivia/internal/queryir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation matched.
	Pass bool `json:"pass"`

	// Plan is the synthesized plan, nil when synthesis failed.
	Plan *queryir.QueryPlan `json:"plan,omitempty"`

	// ErrorCode is the PlanError code when synthesis failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
