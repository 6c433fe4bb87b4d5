package tools

import (
	"context"
	"fmt"

	"github.com/priya/yatri/internal/travel"
)

type FlightSearchTool struct {
	Provider travel.FlightProvider
}

func NewFlightSearchTool(provider travel.FlightProvider) *FlightSearchTool {
	return &FlightSearchTool{Provider: provider}
}

func (t *FlightSearchTool) Name() Action {
	return ActionFlightSearch
}

func (t *FlightSearchTool) Description() string {
	return "Search flight prices from an origin city to one or more destination cities."
}

func (t *FlightSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"origin": map[string]any{
				"type":        "string",
				"description": "The city the user is flying from",
			},
			"destinations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Destination cities to price",
			},
			"depart_date": map[string]any{
				"type":        "string",
				"description": "Departure date (YYYY-MM-DD), optional",
			},
			"passengers": map[string]any{
				"type":        "integer",
				"description": "Number of travelers, default 1",
			},
		},
		"required": []string{"origin", "destinations"},
	}
}

func (t *FlightSearchTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	q := travel.FlightQuery{
		Origin:       StringParam(params, "origin"),
		Destinations: StringSliceParam(params, "destinations"),
		DepartDate:   StringParam(params, "depart_date"),
		Passengers:   IntParam(params, "passengers"),
	}
	if q.Origin == "" {
		return nil, fmt.Errorf("missing origin city")
	}
	if len(q.Destinations) == 0 {
		return nil, fmt.Errorf("missing destination cities")
	}
	return t.Provider.SearchFlights(ctx, q)
}
