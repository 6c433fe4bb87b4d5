package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/priya/yatri/internal/governance"
	"github.com/priya/yatri/internal/observability"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
)

// refSigil prefixes a string parameter that references a prior step's
// output, e.g. {"flights": "$flight_search"}.
const refSigil = "$"

// Executor walks a plan in order, skipping steps whose dependencies failed,
// resolving output references, and dispatching each action through a closed
// switch. A failing step never aborts the rest of the plan.
type Executor struct {
	Registry *tools.Registry
	Policy   governance.PolicyEngine
	Logger   *observability.Logger
}

func NewExecutor(registry *tools.Registry, policy governance.PolicyEngine, logger *observability.Logger) *Executor {
	return &Executor{Registry: registry, Policy: policy, Logger: logger}
}

// Execute runs up to maxIterations steps of the plan against the session.
// When requireApproval is set, non-read-only actions mark the result as
// awaiting approval; gating is advisory here, blocking belongs to the host.
func (e *Executor) Execute(ctx context.Context, plan *ExecutionPlan, sess *session.Session, requireApproval bool, maxIterations int) *ExecutionResult {
	result := &ExecutionResult{Outputs: make(map[string]StepOutcome)}
	turnID := currentTurnID(ctx)

	for _, step := range plan.Steps {
		if result.Iterations >= maxIterations {
			break
		}
		if ctx.Err() != nil {
			break
		}
		action := string(step.Action)

		if requireApproval && !e.Policy.ReadOnly(action) {
			result.AwaitingApproval = true
		}

		// Dependencies must have run and succeeded.
		if skipped, missing := unmetDependency(step, result.Outputs); skipped {
			e.logStep(sess.ID, turnID, action, "skipped:"+missing)
			continue
		}

		params := e.resolveParams(step, result.Outputs, sess)

		if denied, reason := e.denied(ctx, sess.ID, turnID, action, params); denied {
			result.Outputs[action] = StepOutcome{Action: action, Err: reason}
			result.Iterations++
			continue
		}

		e.logToolCall(sess.ID, turnID, action, params)
		data, err := e.dispatch(ctx, step.Action, params)
		if err != nil {
			result.Outputs[action] = StepOutcome{Action: action, Err: err.Error()}
			e.logStep(sess.ID, turnID, action, "failed")
		} else {
			result.Outputs[action] = StepOutcome{Action: action, Data: data}
			result.ToolsUsed = append(result.ToolsUsed, action)
			e.logStep(sess.ID, turnID, action, "completed")
		}
		result.Iterations++
	}

	return result
}

// dispatch is the closed dispatch table. Every member of the Action enum has
// an arm here; a plan naming anything else is a registry/executor mismatch.
func (e *Executor) dispatch(ctx context.Context, action tools.Action, params map[string]any) (any, error) {
	switch action {
	case tools.ActionFlightSearch,
		tools.ActionHotelSearch,
		tools.ActionDestinationInfo,
		tools.ActionBudgetCalculator,
		tools.ActionSavePreferences,
		tools.ActionWatchPrices,
		tools.ActionGeneralAssistance:
		tool := e.Registry.Get(action)
		if tool == nil {
			return nil, &UnknownToolError{Action: string(action)}
		}
		data, err := tool.Execute(ctx, params)
		if err != nil {
			return nil, &ToolExecutionError{Action: string(action), Err: err}
		}
		return data, nil
	default:
		return nil, &UnknownToolError{Action: string(action)}
	}
}

// resolveParams copies the step params, substitutes '$action' references
// with prior outputs, and injects the session identity the durable tools
// need.
func (e *Executor) resolveParams(step Step, outputs map[string]StepOutcome, sess *session.Session) map[string]any {
	params := make(map[string]any, len(step.Params)+3)
	for k, v := range step.Params {
		if s, ok := v.(string); ok && strings.HasPrefix(s, refSigil) {
			if out, found := outputs[strings.TrimPrefix(s, refSigil)]; found && !out.Failed() {
				params[k] = out.Data
				continue
			}
		}
		params[k] = v
	}

	params["chat_id"] = sess.ID
	params["user_id"] = sess.UserID
	if step.Action == tools.ActionSavePreferences {
		profile, _, _ := sess.Snapshot()
		params["profile"] = profile
	}
	return params
}

func unmetDependency(step Step, outputs map[string]StepOutcome) (bool, string) {
	for _, dep := range step.Dependencies {
		out, ok := outputs[dep]
		if !ok || out.Failed() {
			return true, dep
		}
	}
	return false, ""
}

func (e *Executor) denied(ctx context.Context, sessionID, turnID, action string, params map[string]any) (bool, string) {
	if e.Policy == nil {
		return false, ""
	}
	args, _ := json.Marshal(params)
	res, err := e.Policy.Evaluate(ctx, governance.Request{
		Action:    action,
		Arguments: string(args),
		SessionID: sessionID,
	})
	if err != nil {
		return false, ""
	}
	if e.Logger != nil {
		e.Logger.LogPolicyCheck(sessionID, turnID, action, string(res.Effect), res.Reason)
	}
	return res.Effect == governance.EffectDeny, res.Reason
}

func (e *Executor) logStep(sessionID, turnID, action, status string) {
	if e.Logger != nil {
		e.Logger.LogStep(sessionID, turnID, action, status)
	}
}

func (e *Executor) logToolCall(sessionID, turnID, action string, params map[string]any) {
	if e.Logger != nil {
		e.Logger.LogToolCall(sessionID, turnID, action, params)
	}
}
