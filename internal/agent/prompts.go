package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PromptManager assembles system prompts from an on-disk prompts directory,
// falling back to built-in defaults when the directory or a file is missing.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

const defaultPlannerPrompt = `You are the planning component of Yatri, a travel assistant.
Turn the user's request into a JSON execution plan. Respond with ONLY a JSON object:

{
  "intent": "<short label>",
  "steps": [
    {"action": "<tool name>", "params": {...}, "dependencies": ["<prior action>"], "reasoning": "<why>"}
  ],
  "confidence": 0.0-1.0,
  "needs_human_approval": false,
  "reasoning": "<overall approach>"
}

Rules:
- Only use tools from the catalog below.
- A step may reference a prior step's output by setting a string param to "$<action>".
- When the user gives no dates, prefer destination_info and budget_calculator over flight_search.
- When required slots (like the origin city) are missing and cannot be found in the profile, omit the dependent step.`

const defaultNarratorPrompt = `You are Yatri, a warm and practical travel assistant.
Summarize the tool results below for the user: lead with the most useful numbers,
keep it short, and end with one concrete suggestion. Never invent prices or facts
that are not in the results.`

// GetPlannerPrompt returns prompts/planner.md, or the built-in default.
func (pm *PromptManager) GetPlannerPrompt() string {
	data, err := os.ReadFile(filepath.Join(pm.Directory, "planner.md"))
	if err != nil {
		return defaultPlannerPrompt
	}
	return string(data)
}

// GetNarratorPrompt concatenates every persona .md file except planner.md in
// a fixed order, or returns the built-in default when none exist.
func (pm *PromptManager) GetNarratorPrompt() string {
	files, err := os.ReadDir(pm.Directory)
	if err != nil {
		return defaultNarratorPrompt
	}

	// Persona first, then tone, then anything else alphabetically.
	order := map[string]int{
		"identity.md": 1,
		"tone.md":     2,
		"user.md":     3,
	}
	sort.Slice(files, func(i, j int) bool {
		oi, okI := order[files[i].Name()]
		oj, okJ := order[files[j].Name()]
		if okI && okJ {
			return oi < oj
		}
		if okI {
			return true
		}
		if okJ {
			return false
		}
		return files[i].Name() < files[j].Name()
	})

	var contents []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") || f.Name() == "planner.md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(pm.Directory, f.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read prompt file %s: %v\n", f.Name(), err)
			continue
		}
		contents = append(contents, string(data))
	}

	if len(contents) == 0 {
		return defaultNarratorPrompt
	}
	return strings.Join(contents, "\n\n---\n\n")
}
