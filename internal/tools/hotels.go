package tools

import (
	"context"
	"fmt"

	"github.com/priya/yatri/internal/travel"
)

type HotelSearchTool struct {
	Provider travel.HotelProvider
}

func NewHotelSearchTool(provider travel.HotelProvider) *HotelSearchTool {
	return &HotelSearchTool{Provider: provider}
}

func (t *HotelSearchTool) Name() Action {
	return ActionHotelSearch
}

func (t *HotelSearchTool) Description() string {
	return "Search hotels and stays in a city, optionally capped at a nightly price."
}

func (t *HotelSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "The city to search in",
			},
			"check_in": map[string]any{
				"type":        "string",
				"description": "Check-in date (YYYY-MM-DD), optional",
			},
			"check_out": map[string]any{
				"type":        "string",
				"description": "Check-out date (YYYY-MM-DD), optional",
			},
			"guests": map[string]any{
				"type":        "integer",
				"description": "Number of guests, default 1",
			},
			"max_price": map[string]any{
				"type":        "number",
				"description": "Maximum nightly price in USD, optional",
			},
		},
		"required": []string{"city"},
	}
}

func (t *HotelSearchTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	q := travel.HotelQuery{
		City:     StringParam(params, "city"),
		CheckIn:  StringParam(params, "check_in"),
		CheckOut: StringParam(params, "check_out"),
		Guests:   IntParam(params, "guests"),
		MaxPrice: FloatParam(params, "max_price"),
	}
	if q.City == "" {
		// planners often say "destination" instead of "city"
		q.City = StringParam(params, "destination")
	}
	if q.City == "" {
		return nil, fmt.Errorf("missing city")
	}
	return t.Provider.SearchHotels(ctx, q)
}
