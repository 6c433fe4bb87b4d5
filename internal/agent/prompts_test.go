package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptManager_NarratorOrder(t *testing.T) {
	tempDir := t.TempDir()

	files := map[string]string{
		"identity.md": "Identity Content",
		"tone.md":     "Tone Content",
		"user.md":     "User Content",
		"extra.md":    "Extra Content",
		"planner.md":  "Planner Content",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	pm := NewPromptManager(tempDir)
	prompt := pm.GetNarratorPrompt()

	for _, part := range []string{"Identity Content", "Tone Content", "User Content", "Extra Content"} {
		if !strings.Contains(prompt, part) {
			t.Errorf("Prompt missing expected part: %s", part)
		}
	}
	if strings.Contains(prompt, "Planner Content") {
		t.Error("Narrator prompt must not include planner.md")
	}

	// Verify order
	if strings.Index(prompt, "Identity Content") >= strings.Index(prompt, "Tone Content") {
		t.Error("Identity should be before Tone")
	}
	if strings.Index(prompt, "Tone Content") >= strings.Index(prompt, "User Content") {
		t.Error("Tone should be before User")
	}
}

func TestPromptManager_DefaultsWhenDirectoryMissing(t *testing.T) {
	pm := NewPromptManager(filepath.Join(t.TempDir(), "does-not-exist"))

	if !strings.Contains(pm.GetPlannerPrompt(), "JSON") {
		t.Error("default planner prompt should describe the JSON plan shape")
	}
	if pm.GetNarratorPrompt() == "" {
		t.Error("default narrator prompt should not be empty")
	}
}
