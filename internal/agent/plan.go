package agent

import (
	"github.com/priya/yatri/internal/tools"
)

// Step is a single tool invocation in a plan. String parameter values
// prefixed with '$' reference a prior step's output by action name.
type Step struct {
	Action       tools.Action   `json:"action"`
	Params       map[string]any `json:"params"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Reasoning    string         `json:"reasoning,omitempty"`
}

// ExecutionPlan is what the reasoning model produces for one turn. It is
// consumed by the executor and never mutated after creation.
type ExecutionPlan struct {
	Intent             string  `json:"intent"`
	Steps              []Step  `json:"steps"`
	Confidence         float64 `json:"confidence"`
	NeedsHumanApproval bool    `json:"needs_human_approval"`
	Reasoning          string  `json:"reasoning,omitempty"`
}

// StepOutcome is the recorded result of one step: either typed data or an
// error marker. Later steps reference outcomes through the '$' sigil.
type StepOutcome struct {
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Failed reports whether this outcome is an error marker.
func (o StepOutcome) Failed() bool {
	return o.Err != ""
}

// ExecutionResult accumulates what actually happened while walking a plan.
type ExecutionResult struct {
	ToolsUsed        []string               `json:"tools_used"`
	Outputs          map[string]StepOutcome `json:"outputs"`
	Iterations       int                    `json:"iterations"`
	AwaitingApproval bool                   `json:"awaiting_approval"`
}
