package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/priya/yatri/internal/governance"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
	"github.com/priya/yatri/internal/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssistant(model *fakeModel) *Assistant {
	registry := tools.NewRegistry()
	registry.Register(tools.NewFlightSearchTool(travel.NewStaticFlightProvider()))
	registry.Register(tools.NewHotelSearchTool(travel.NewStaticHotelProvider()))
	registry.Register(tools.NewDestinationInfoTool(travel.NewGuideDestinationProvider()))
	registry.Register(tools.NewBudgetCalculatorTool())
	registry.Register(tools.NewGeneralAssistanceTool())

	prompts := NewPromptManager("does-not-exist")
	planner := NewPlanner(model, registry, prompts)
	executor := NewExecutor(registry, governance.NewDefaultPolicyEngine(), nil)
	return NewAssistant(session.NewStore(), nil, planner, executor, model, prompts, nil)
}

func TestProcessTurn_DestinationFirstTrip(t *testing.T) {
	// First response plans, second narrates; empty narration forces the
	// deterministic synthesizer so the assertion is stable.
	model := &fakeModel{responses: []string{goodPlanJSON, ""}}
	assistant := newTestAssistant(model)

	result := assistant.ProcessTurn(context.Background(), "chat-1", "user-1",
		"Planning a budget trip to Bali, around $1500, travelling solo")

	require.NotNil(t, result)
	assert.Equal(t, []string{"destination_info"}, result.ToolsUsed)
	assert.Contains(t, result.Text, "Bali")
	assert.InDelta(t, 0.85, result.Confidence, 0.001)

	// The turn also updated the slot profile and session log.
	sess := assistant.Sessions.GetOrCreate("chat-1", "user-1")
	profile, history, _ := sess.Snapshot()
	assert.Equal(t, 1500.0, profile.Budget)
	assert.Equal(t, "budget", profile.TravelStyle)
	require.Len(t, history, 1)
	assert.Equal(t, result.Text, history[0].AssistantText)
	assert.Contains(t, sess.TripTopics, "Bali")
}

const originlessFlightPlanJSON = `{
  "intent": "flight_search",
  "steps": [
    {"action": "flight_search", "params": {"destinations": ["Goa"]}}
  ],
  "confidence": 0.8,
  "needs_human_approval": false
}`

func TestProcessTurn_AsksForOriginThenRecovers(t *testing.T) {
	model := &fakeModel{responses: []string{originlessFlightPlanJSON, ""}}
	assistant := newTestAssistant(model)
	ctx := context.Background()

	first := assistant.ProcessTurn(ctx, "chat-2", "user-2", "how much are flights to Goa?")
	assert.Equal(t, AskOrigin, first.Text)
	assert.Empty(t, first.ToolsUsed)

	// The bare city reply is recovered without another planning call; only
	// the narration response is consumed.
	second := assistant.ProcessTurn(ctx, "chat-2", "user-2", "Mumbai")
	assert.Equal(t, []string{"flight_search"}, second.ToolsUsed)
	assert.Contains(t, second.Text, "Mumbai")
	assert.Contains(t, second.Text, "Goa")
	assert.InDelta(t, 0.9, second.Confidence, 0.001)
	assert.Equal(t, 2, model.calls)
}

func TestProcessTurn_OriginPatchedFromProfile(t *testing.T) {
	model := &fakeModel{responses: []string{originlessFlightPlanJSON, ""}}
	assistant := newTestAssistant(model)

	result := assistant.ProcessTurn(context.Background(), "chat-3", "user-3",
		"I'm from Delhi, how much are flights to Goa?")

	assert.Equal(t, []string{"flight_search"}, result.ToolsUsed)
	assert.Contains(t, result.Text, "Delhi")
	assert.NotEqual(t, AskOrigin, result.Text)
}

func TestProcessTurn_NeverFails(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("model down"), errors.New("model down")}}
	assistant := newTestAssistant(model)

	result := assistant.ProcessTurn(context.Background(), "chat-4", "user-4", "help me plan something")

	require.NotNil(t, result)
	assert.NotEmpty(t, result.Text)
	assert.Equal(t, []string{"general_assistance"}, result.ToolsUsed)
	assert.InDelta(t, 0.5, result.Confidence, 0.001)
}

func TestProcessTurn_SearchRecordedInSession(t *testing.T) {
	model := &fakeModel{responses: []string{originlessFlightPlanJSON, ""}}
	assistant := newTestAssistant(model)

	assistant.ProcessTurn(context.Background(), "chat-5", "user-5",
		"I'm from Delhi, flights to Goa please")

	sess := assistant.Sessions.GetOrCreate("chat-5", "user-5")
	require.Len(t, sess.SearchHistory, 1)
	assert.Equal(t, "flight", sess.SearchHistory[0].Kind)
	assert.Greater(t, sess.SearchHistory[0].Results, 0)
}
