package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// fakeModel replays scripted responses in order.
type fakeModel struct {
	responses []string
	errs      []error
	calls     int
	lastSys   string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := m.calls
	m.calls++
	for _, msg := range messages {
		if msg.Role == schema.ChatMessageTypeSystem {
			for _, part := range msg.Parts {
				if text, ok := part.(llms.TextContent); ok {
					m.lastSys = text.Text
				}
			}
		}
	}
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	content := ""
	if idx < len(m.responses) {
		content = m.responses[idx]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(prompt)}},
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func newTestPlanner(model llms.Model) *Planner {
	registry := tools.NewRegistry()
	registry.Register(&fakeTool{name: tools.ActionGeneralAssistance})
	registry.Register(&fakeTool{name: tools.ActionDestinationInfo})
	return NewPlanner(model, registry, NewPromptManager("does-not-exist"))
}

const goodPlanJSON = `Here is the plan:
` + "```json" + `
{
  "intent": "destination_info",
  "steps": [
    {"action": "destination_info", "params": {"destination": "Bali"}}
  ],
  "confidence": 0.85,
  "needs_human_approval": false
}
` + "```"

func TestCreatePlan_ParsesModelOutput(t *testing.T) {
	model := &fakeModel{responses: []string{goodPlanJSON}}
	planner := newTestPlanner(model)
	sess := session.NewStore().GetOrCreate("c", "u")

	plan := planner.CreatePlan(context.Background(), "tell me about Bali", sess)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, tools.ActionDestinationInfo, plan.Steps[0].Action)
	assert.Equal(t, "Bali", plan.Steps[0].Params["destination"])
	assert.InDelta(t, 0.85, plan.Confidence, 0.001)
}

func TestCreatePlan_PromptCarriesCatalogAndProfile(t *testing.T) {
	model := &fakeModel{responses: []string{goodPlanJSON}}
	planner := newTestPlanner(model)
	sess := session.NewStore().GetOrCreate("c", "u")

	planner.CreatePlan(context.Background(), "tell me about Bali", sess)

	assert.Contains(t, model.lastSys, "destination_info")
	assert.Contains(t, model.lastSys, "general_assistance")
	assert.Contains(t, model.lastSys, "(first message)")
}

func TestCreatePlan_ModelErrorFallsBack(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("boom")}}
	planner := newTestPlanner(model)
	sess := session.NewStore().GetOrCreate("c", "u")

	plan := planner.CreatePlan(context.Background(), "hello", sess)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, tools.ActionGeneralAssistance, plan.Steps[0].Action)
	assert.InDelta(t, 0.5, plan.Confidence, 0.001)
}

func TestCreatePlan_GarbageFallsBack(t *testing.T) {
	model := &fakeModel{responses: []string{"I cannot help with that."}}
	planner := newTestPlanner(model)
	sess := session.NewStore().GetOrCreate("c", "u")

	plan := planner.CreatePlan(context.Background(), "hello", sess)

	assert.Equal(t, tools.ActionGeneralAssistance, plan.Steps[0].Action)
}

func TestParsePlan_ClampsConfidenceAndDefaultsParams(t *testing.T) {
	plan, err := ParsePlan(`{"intent": "x", "steps": [{"action": "general_assistance"}], "confidence": 3.2}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, plan.Confidence)
	assert.NotNil(t, plan.Steps[0].Params)
}

func TestParsePlan_RejectsEmptySteps(t *testing.T) {
	_, err := ParsePlan(`{"intent": "x", "steps": [], "confidence": 0.9}`)
	require.Error(t, err)
	var parseErr *PlanParseError
	assert.ErrorAs(t, err, &parseErr)
}
