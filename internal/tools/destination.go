package tools

import (
	"context"
	"fmt"

	"github.com/priya/yatri/internal/travel"
)

type DestinationInfoTool struct {
	Provider travel.DestinationProvider
}

func NewDestinationInfoTool(provider travel.DestinationProvider) *DestinationInfoTool {
	return &DestinationInfoTool{Provider: provider}
}

func (t *DestinationInfoTool) Name() Action {
	return ActionDestinationInfo
}

func (t *DestinationInfoTool) Description() string {
	return "Look up facts about a destination: best season, budget level, languages, highlights."
}

func (t *DestinationInfoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"destination": map[string]any{
				"type":        "string",
				"description": "The destination to look up",
			},
		},
		"required": []string{"destination"},
	}
}

func (t *DestinationInfoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	dest := StringParam(params, "destination")
	if dest == "" {
		dest = StringParam(params, "city")
	}
	if dest == "" {
		return nil, fmt.Errorf("missing destination")
	}
	return t.Provider.Lookup(ctx, dest)
}
