package governance

import (
	"context"
	"fmt"
	"regexp"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow         Effect = "allow"
	EffectDeny          Effect = "deny"
	EffectNeedsApproval Effect = "needs_approval"
)

// Request contains the context of a tool step to be evaluated.
type Request struct {
	Action    string
	Arguments string
	SessionID string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine evaluates tool steps against a set of rules.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
	ReadOnly(action string) bool
}

// DefaultPolicyEngine marks a fixed set of actions as read-only (safe to run
// without approval) and can deny steps whose arguments match a restricted
// pattern.
type DefaultPolicyEngine struct {
	ReadOnlyActions map[string]bool
	DeniedActions   map[string]bool
	DeniedRegex     []*regexp.Regexp
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		ReadOnlyActions: map[string]bool{
			"flight_search":      true,
			"hotel_search":       true,
			"destination_info":   true,
			"budget_calculator":  true,
			"general_assistance": true,
		},
		DeniedActions: make(map[string]bool),
		DeniedRegex:   make([]*regexp.Regexp, 0),
	}
}

func (e *DefaultPolicyEngine) DenyAction(name string) {
	e.DeniedActions[name] = true
}

func (e *DefaultPolicyEngine) DenyArguments(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedRegex = append(e.DeniedRegex, re)
	return nil
}

// ReadOnly reports whether an action may run without human approval.
func (e *DefaultPolicyEngine) ReadOnly(action string) bool {
	return e.ReadOnlyActions[action]
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if e.DeniedActions[req.Action] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("Action '%s' is restricted by system policy", req.Action),
		}, nil
	}

	for _, re := range e.DeniedRegex {
		if re.MatchString(req.Arguments) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Arguments match restricted pattern: %s", re.String()),
			}, nil
		}
	}

	if !e.ReadOnly(req.Action) {
		return Result{
			Effect: EffectNeedsApproval,
			Reason: fmt.Sprintf("Action '%s' modifies durable state", req.Action),
		}, nil
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}
