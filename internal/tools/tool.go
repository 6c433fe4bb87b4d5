package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Action is the closed set of capabilities the executor can dispatch.
// Adding an action is a two-place change: register the tool here and add a
// dispatch arm in the executor.
type Action string

const (
	ActionFlightSearch      Action = "flight_search"
	ActionHotelSearch       Action = "hotel_search"
	ActionDestinationInfo   Action = "destination_info"
	ActionBudgetCalculator  Action = "budget_calculator"
	ActionSavePreferences   Action = "save_preferences"
	ActionWatchPrices       Action = "watch_prices"
	ActionGeneralAssistance Action = "general_assistance"
)

// Tool defines the interface for all assistant capabilities.
type Tool interface {
	Name() Action
	Description() string
	Parameters() map[string]any // JSON Schema for the tool's inputs
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// Registry manages the set of available tools. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	tools map[Action]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[Action]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name Action) Tool {
	return r.tools[name]
}

// List returns all registered tools sorted by name, so planner prompts are
// deterministic.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// CatalogDigest renders the "name: description" lines embedded in planner
// prompts.
func (r *Registry) CatalogDigest() string {
	var lines []string
	for _, t := range r.List() {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(lines, "\n")
}

// Param helpers. Plans arrive as JSON, so numbers are float64 and lists are
// []any; tools go through these instead of raw type assertions.

func StringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func StringSliceParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func IntParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func FloatParam(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
