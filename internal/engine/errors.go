package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/aivia/internal/queryir"
)

// PlanErrorCode categorizes synthesis failures.
type PlanErrorCode string

const (
	// ErrCodeNoBindings indicates no entity, value or negation binding
	// was resolved.
	ErrCodeNoBindings PlanErrorCode = "NO_BINDINGS_FOUND"

	// ErrCodePathPlanning indicates a required join could not be planned
	// faithfully while strict joins are enabled.
	ErrCodePathPlanning PlanErrorCode = "PATH_PLANNING_DEGRADED"

	// ErrCodeInconsistentPlan indicates the assembled plan failed
	// validation.
	ErrCodeInconsistentPlan PlanErrorCode = "INCONSISTENT_PLAN"

	// ErrCodeInvalidRequest indicates a malformed request.
	ErrCodeInvalidRequest PlanErrorCode = "INVALID_REQUEST"

	// ErrCodeInvalidConfig indicates the Engine was built from a Config
	// that fails Config.Validate.
	ErrCodeInvalidConfig PlanErrorCode = "INVALID_CONFIG"
)

// Stages named in PlanError.Stage.
const (
	StageConfig   = "config"
	StageRequest  = "request"
	StageResolve  = "resolve"
	StagePathPlan = "path_plan"
	StageValidate = "validate"
)

// PlanError is a fatal synthesis failure. No plan accompanies it.
type PlanError struct {
	// Code identifies the error category.
	Code PlanErrorCode

	// Stage is the pipeline stage that failed.
	Stage string

	// Message is a human-readable description.
	Message string

	// Details lists individual problems (validation errors, warnings
	// that became fatal).
	Details []string

	// Warnings collected before the failure.
	Warnings []queryir.Warning

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s stage: %s (%d details)", e.Code, e.Stage, e.Message, len(e.Details))
	}
	return fmt.Sprintf("%s: %s stage: %s", e.Code, e.Stage, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PlanError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code PlanErrorCode) bool {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsNoBindings reports whether err is a NO_BINDINGS_FOUND failure.
func IsNoBindings(err error) bool {
	return hasCode(err, ErrCodeNoBindings)
}

// IsPathPlanningError reports whether err is a fatal path planning failure.
func IsPathPlanningError(err error) bool {
	return hasCode(err, ErrCodePathPlanning)
}

// IsInconsistentPlan reports whether err is a validation failure.
func IsInconsistentPlan(err error) bool {
	return hasCode(err, ErrCodeInconsistentPlan)
}

// IsInvalidRequest reports whether err is a request validation failure.
func IsInvalidRequest(err error) bool {
	return hasCode(err, ErrCodeInvalidRequest)
}

// IsInvalidConfig reports whether err is an INVALID_CONFIG PlanError.
func IsInvalidConfig(err error) bool {
	return hasCode(err, ErrCodeInvalidConfig)
}

func newNoBindingsError(tokens int, warnings []queryir.Warning) *PlanError {
	return &PlanError{
		Code:     ErrCodeNoBindings,
		Stage:    StageResolve,
		Message:  fmt.Sprintf("no entity, value, or negation bindings resolved from %d tokens", tokens),
		Warnings: warnings,
	}
}
