package tools

import (
	"context"
	"fmt"

	"github.com/priya/yatri/internal/travel"
)

type BudgetCalculatorTool struct{}

func NewBudgetCalculatorTool() *BudgetCalculatorTool {
	return &BudgetCalculatorTool{}
}

func (t *BudgetCalculatorTool) Name() Action {
	return ActionBudgetCalculator
}

func (t *BudgetCalculatorTool) Description() string {
	return "Estimate an itemized trip cost (flights, lodging, food, activities) for a destination."
}

func (t *BudgetCalculatorTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"destination": map[string]any{
				"type":        "string",
				"description": "The destination to estimate for",
			},
			"days": map[string]any{
				"type":        "integer",
				"description": "Trip length in days, default 7",
			},
			"travelers": map[string]any{
				"type":        "integer",
				"description": "Number of travelers, default 1",
			},
			"style": map[string]any{
				"type":        "string",
				"enum":        []string{"budget", "mid-range", "luxury"},
				"description": "Travel style multiplier",
			},
			"total_budget": map[string]any{
				"type":        "number",
				"description": "The user's total budget in USD, optional",
			},
		},
		"required": []string{"destination"},
	}
}

func (t *BudgetCalculatorTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := travel.BudgetQuery{
		Destination: StringParam(params, "destination"),
		Days:        IntParam(params, "days"),
		Travelers:   IntParam(params, "travelers"),
		Style:       StringParam(params, "style"),
		TotalBudget: FloatParam(params, "total_budget"),
	}
	if q.Destination == "" {
		return nil, fmt.Errorf("missing destination")
	}
	return travel.EstimateBudget(q), nil
}
