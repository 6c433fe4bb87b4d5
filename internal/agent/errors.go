package agent

import (
	"fmt"
)

// PlanParseError reports that the model's reply could not be turned into an
// ExecutionPlan. It is always recovered locally with a fallback plan.
type PlanParseError struct {
	Raw string
	Err error
}

func (e *PlanParseError) Error() string {
	return fmt.Sprintf("failed to parse plan: %v", e.Err)
}

func (e *PlanParseError) Unwrap() error { return e.Err }

// ToolExecutionError marks one failed step. It is recorded in the execution
// outputs and never aborts the remaining plan.
type ToolExecutionError struct {
	Action string
	Err    error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Action, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// UnknownToolError means the plan named an action the executor cannot
// dispatch. This is a registry/executor mismatch, a programming error rather
// than a runtime condition, and is fatal for the step only.
type UnknownToolError struct {
	Action string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Action)
}
