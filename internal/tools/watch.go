package tools

import (
	"context"
	"fmt"
)

// WatchStore is the durable side of watch_prices; satisfied by
// store.PreferenceStore.
type WatchStore interface {
	AddWatch(chatID, origin, destination string, intervalSeconds int) error
	ClearWatches(chatID string) error
}

type WatchPricesTool struct {
	Store WatchStore
}

func NewWatchPricesTool(store WatchStore) *WatchPricesTool {
	return &WatchPricesTool{Store: store}
}

func (t *WatchPricesTool) Name() Action {
	return ActionWatchPrices
}

func (t *WatchPricesTool) Description() string {
	return "Manage recurring flight price watches: 'schedule' a route check or 'clear' all watches."
}

func (t *WatchPricesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"schedule", "clear"},
				"description": "Schedule a new watch or clear existing ones",
			},
			"origin": map[string]any{
				"type":        "string",
				"description": "Origin city (only for 'schedule')",
			},
			"destination": map[string]any{
				"type":        "string",
				"description": "Destination city (only for 'schedule')",
			},
			"interval_seconds": map[string]any{
				"type":        "integer",
				"description": "How often to re-check, minimum 3600, default 86400",
			},
		},
		"required": []string{"action"},
	}
}

func (t *WatchPricesTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chatID := StringParam(params, "chat_id")
	if chatID == "" {
		return nil, fmt.Errorf("missing chat_id")
	}

	switch StringParam(params, "action") {
	case "clear":
		if err := t.Store.ClearWatches(chatID); err != nil {
			return nil, fmt.Errorf("failed to clear watches: %v", err)
		}
		return "Cleared all your price watches.", nil

	case "schedule":
		origin := StringParam(params, "origin")
		dest := StringParam(params, "destination")
		if origin == "" || dest == "" {
			return nil, fmt.Errorf("schedule requires origin and destination")
		}
		interval := IntParam(params, "interval_seconds")
		if interval == 0 {
			interval = 86400
		}
		if interval < 3600 {
			return "Minimum watch interval is one hour.", nil
		}
		if err := t.Store.AddWatch(chatID, origin, dest, interval); err != nil {
			return nil, fmt.Errorf("failed to schedule watch: %v", err)
		}
		return fmt.Sprintf("Watching %s -> %s fares every %d seconds.", origin, dest, interval), nil

	default:
		return "Invalid action. Use 'schedule' or 'clear'.", nil
	}
}
