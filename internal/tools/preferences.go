package tools

import (
	"context"
	"fmt"

	"github.com/priya/yatri/internal/extract"
)

// ProfileSaver is the durable side of save_preferences; satisfied by
// store.PreferenceStore.
type ProfileSaver interface {
	SaveProfile(userID string, prof extract.Profile) error
}

type SavePreferencesTool struct {
	Saver ProfileSaver
}

func NewSavePreferencesTool(saver ProfileSaver) *SavePreferencesTool {
	return &SavePreferencesTool{Saver: saver}
}

func (t *SavePreferencesTool) Name() Action {
	return ActionSavePreferences
}

func (t *SavePreferencesTool) Description() string {
	return "Persist the traveler's preference profile so future chats remember it."
}

func (t *SavePreferencesTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Execute reads the executor-injected user id and profile. Persistence
// failures surface as step errors but never abort the turn.
func (t *SavePreferencesTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userID := StringParam(params, "user_id")
	if userID == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	prof, ok := params["profile"].(extract.Profile)
	if !ok {
		return nil, fmt.Errorf("missing profile")
	}
	if err := t.Saver.SaveProfile(userID, prof); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %v", err)
	}
	return fmt.Sprintf("Preferences saved for %s.", userID), nil
}
