package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/priya/yatri/internal/governance"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name   tools.Action
	result any
	err    error
	got    map[string]any
	calls  int
}

func (f *fakeTool) Name() tools.Action         { return f.name }
func (f *fakeTool) Description() string        { return "fake " + string(f.name) }
func (f *fakeTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (f *fakeTool) Execute(_ context.Context, params map[string]any) (any, error) {
	f.calls++
	f.got = params
	return f.result, f.err
}

func newTestSession() *session.Session {
	return session.NewStore().GetOrCreate("chat-1", "user-1")
}

func newTestExecutor(fakes ...*fakeTool) (*Executor, *tools.Registry) {
	registry := tools.NewRegistry()
	for _, f := range fakes {
		registry.Register(f)
	}
	return NewExecutor(registry, governance.NewDefaultPolicyEngine(), nil), registry
}

func TestExecutor_IterationBound(t *testing.T) {
	assist := &fakeTool{name: tools.ActionGeneralAssistance, result: "ok"}
	exec, _ := newTestExecutor(assist)

	plan := &ExecutionPlan{
		Intent: "general_assistance",
		Steps: []Step{
			{Action: tools.ActionGeneralAssistance, Params: map[string]any{}},
			{Action: tools.ActionGeneralAssistance, Params: map[string]any{}},
			{Action: tools.ActionGeneralAssistance, Params: map[string]any{}},
		},
	}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 2)

	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, 2, assist.calls)
}

func TestExecutor_SkipsStepWithFailedDependency(t *testing.T) {
	flights := &fakeTool{name: tools.ActionFlightSearch, err: errors.New("no fares")}
	hotels := &fakeTool{name: tools.ActionHotelSearch, result: "stays"}
	exec, _ := newTestExecutor(flights, hotels)

	plan := &ExecutionPlan{
		Steps: []Step{
			{Action: tools.ActionFlightSearch, Params: map[string]any{}},
			{Action: tools.ActionHotelSearch, Params: map[string]any{}, Dependencies: []string{"flight_search"}},
		},
	}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	assert.Equal(t, 0, hotels.calls, "dependent step must not run")
	require.Contains(t, result.Outputs, "flight_search")
	assert.True(t, result.Outputs["flight_search"].Failed())
	assert.NotContains(t, result.Outputs, "hotel_search")
	// Skips do not consume iterations.
	assert.Equal(t, 1, result.Iterations)
	assert.Empty(t, result.ToolsUsed)
}

func TestExecutor_ResolvesOutputReferences(t *testing.T) {
	dest := &fakeTool{name: tools.ActionDestinationInfo, result: "FACTS"}
	budget := &fakeTool{name: tools.ActionBudgetCalculator, result: "BREAKDOWN"}
	exec, _ := newTestExecutor(dest, budget)

	plan := &ExecutionPlan{
		Steps: []Step{
			{Action: tools.ActionDestinationInfo, Params: map[string]any{"city": "Bali"}},
			{
				Action:       tools.ActionBudgetCalculator,
				Params:       map[string]any{"facts": "$destination_info", "days": float64(7)},
				Dependencies: []string{"destination_info"},
			},
		},
	}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	require.Equal(t, 1, budget.calls)
	assert.Equal(t, "FACTS", budget.got["facts"])
	assert.Equal(t, float64(7), budget.got["days"])
	assert.Equal(t, "chat-1", budget.got["chat_id"])
	assert.Equal(t, "user-1", budget.got["user_id"])
	assert.Equal(t, []string{"destination_info", "budget_calculator"}, result.ToolsUsed)
}

func TestExecutor_UnresolvedReferencePassedThrough(t *testing.T) {
	budget := &fakeTool{name: tools.ActionBudgetCalculator, result: "BREAKDOWN"}
	exec, _ := newTestExecutor(budget)

	plan := &ExecutionPlan{
		Steps: []Step{{Action: tools.ActionBudgetCalculator, Params: map[string]any{"facts": "$destination_info"}}},
	}
	exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	// No prior output to substitute; the literal survives for the tool to
	// reject.
	assert.Equal(t, "$destination_info", budget.got["facts"])
}

func TestExecutor_UnknownActionFails(t *testing.T) {
	exec, _ := newTestExecutor()

	plan := &ExecutionPlan{
		Steps: []Step{{Action: tools.Action("teleport"), Params: map[string]any{}}},
	}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	require.Contains(t, result.Outputs, "teleport")
	assert.True(t, result.Outputs["teleport"].Failed())
	assert.Contains(t, result.Outputs["teleport"].Err, "teleport")
}

func TestExecutor_UnregisteredKnownActionFails(t *testing.T) {
	exec, _ := newTestExecutor()

	plan := &ExecutionPlan{
		Steps: []Step{{Action: tools.ActionFlightSearch, Params: map[string]any{}}},
	}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	require.Contains(t, result.Outputs, "flight_search")
	assert.True(t, result.Outputs["flight_search"].Failed())
}

func TestExecutor_ApprovalFlagIsAdvisory(t *testing.T) {
	save := &fakeTool{name: tools.ActionSavePreferences, result: "saved"}
	flights := &fakeTool{name: tools.ActionFlightSearch, result: "fares"}
	exec, _ := newTestExecutor(save, flights)

	readOnly := &ExecutionPlan{Steps: []Step{{Action: tools.ActionFlightSearch, Params: map[string]any{}}}}
	result := exec.Execute(context.Background(), readOnly, newTestSession(), true, 5)
	assert.False(t, result.AwaitingApproval)

	mutating := &ExecutionPlan{Steps: []Step{{Action: tools.ActionSavePreferences, Params: map[string]any{}}}}
	result = exec.Execute(context.Background(), mutating, newTestSession(), true, 5)
	assert.True(t, result.AwaitingApproval)
	// Advisory: the step still ran.
	assert.Equal(t, 1, save.calls)

	result = exec.Execute(context.Background(), mutating, newTestSession(), false, 5)
	assert.False(t, result.AwaitingApproval)
}

func TestExecutor_PolicyDenyBlocksStep(t *testing.T) {
	flights := &fakeTool{name: tools.ActionFlightSearch, result: "fares"}
	registry := tools.NewRegistry()
	registry.Register(flights)
	policy := governance.NewDefaultPolicyEngine()
	policy.DenyAction("flight_search")
	exec := NewExecutor(registry, policy, nil)

	plan := &ExecutionPlan{Steps: []Step{{Action: tools.ActionFlightSearch, Params: map[string]any{}}}}
	result := exec.Execute(context.Background(), plan, newTestSession(), false, 5)

	assert.Equal(t, 0, flights.calls)
	require.Contains(t, result.Outputs, "flight_search")
	assert.True(t, result.Outputs["flight_search"].Failed())
	assert.Equal(t, 1, result.Iterations)
}

func TestExecutor_SavePreferencesGetsProfile(t *testing.T) {
	save := &fakeTool{name: tools.ActionSavePreferences, result: "saved"}
	exec, _ := newTestExecutor(save)

	sess := newTestSession()
	plan := &ExecutionPlan{Steps: []Step{{Action: tools.ActionSavePreferences, Params: map[string]any{}}}}
	exec.Execute(context.Background(), plan, sess, false, 5)

	require.Equal(t, 1, save.calls)
	_, hasProfile := save.got["profile"]
	assert.True(t, hasProfile)
}
