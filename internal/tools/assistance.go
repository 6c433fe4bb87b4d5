package tools

import (
	"context"
)

// GeneralAssistanceTool is the fallback action: it never fails and gives the
// synthesizer something to render when planning could not produce anything
// more specific.
type GeneralAssistanceTool struct{}

func NewGeneralAssistanceTool() *GeneralAssistanceTool {
	return &GeneralAssistanceTool{}
}

func (t *GeneralAssistanceTool) Name() Action {
	return ActionGeneralAssistance
}

func (t *GeneralAssistanceTool) Description() string {
	return "General travel help when no specific search applies: explain what the assistant can do."
}

func (t *GeneralAssistanceTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The user's request, verbatim",
			},
		},
	}
}

func (t *GeneralAssistanceTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return "I can compare flight prices, find hotels, share destination facts, " +
		"estimate trip budgets, and watch fares for you. Tell me where you want " +
		"to go, and from where.", nil
}
