package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Planner turns a chat message into an ExecutionPlan by prompting the
// reasoning model. Planning never fails a turn: any model or parse problem
// degrades to a single-step general_assistance plan.
type Planner struct {
	Model    llms.Model
	Registry *tools.Registry
	Prompts  *PromptManager
}

func NewPlanner(model llms.Model, registry *tools.Registry, prompts *PromptManager) *Planner {
	return &Planner{Model: model, Registry: registry, Prompts: prompts}
}

// CreatePlan prompts the model with the tool catalog, slot profile, and a
// short history digest, then parses the first balanced JSON object out of
// the reply.
func (p *Planner) CreatePlan(ctx context.Context, message string, sess *session.Session) *ExecutionPlan {
	profile, history, _ := sess.Snapshot()

	profileJSON, _ := json.Marshal(profile)
	systemPrompt := fmt.Sprintf(
		"%s\n\n## Available Tools:\n%s\n\n## Traveler profile:\n%s\n\n## Recent conversation:\n%s",
		p.Prompts.GetPlannerPrompt(),
		p.Registry.CatalogDigest(),
		string(profileJSON),
		historyDigest(history, 5),
	)

	messages := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(systemPrompt)}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(message)}},
	}

	resp, err := p.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(800),
	)
	if err != nil {
		log.Printf("planning call failed, using fallback plan: %v", err)
		return FallbackPlan(message)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return FallbackPlan(message)
	}

	plan, err := ParsePlan(resp.Choices[0].Content)
	if err != nil {
		log.Printf("%v, using fallback plan", err)
		return FallbackPlan(message)
	}
	return plan
}

// ParsePlan extracts and decodes an ExecutionPlan from model output.
func ParsePlan(raw string) (*ExecutionPlan, error) {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, &PlanParseError{Raw: raw, Err: err}
	}

	var plan ExecutionPlan
	if err := json.Unmarshal([]byte(obj), &plan); err != nil {
		return nil, &PlanParseError{Raw: raw, Err: err}
	}
	if len(plan.Steps) == 0 {
		return nil, &PlanParseError{Raw: raw, Err: fmt.Errorf("plan has no steps")}
	}

	if plan.Confidence < 0 {
		plan.Confidence = 0
	}
	if plan.Confidence > 1 {
		plan.Confidence = 1
	}
	for i := range plan.Steps {
		if plan.Steps[i].Params == nil {
			plan.Steps[i].Params = map[string]any{}
		}
	}
	return &plan, nil
}

// FallbackPlan is the plan of last resort: one general_assistance step.
func FallbackPlan(message string) *ExecutionPlan {
	return &ExecutionPlan{
		Intent: "general_assistance",
		Steps: []Step{{
			Action: tools.ActionGeneralAssistance,
			Params: map[string]any{"message": message},
		}},
		Confidence:         0.5,
		NeedsHumanApproval: false,
		Reasoning:          "planning unavailable, falling back to general assistance",
	}
}

func historyDigest(history []session.Turn, limit int) string {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", clipLine(turn.UserText), clipLine(turn.AssistantText))
	}
	if b.Len() == 0 {
		return "(first message)"
	}
	return b.String()
}

func clipLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 200 {
		return s[:197] + "..."
	}
	return s
}
