package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/priya/yatri/internal/extract"
	"github.com/priya/yatri/internal/llm"
	"github.com/priya/yatri/internal/observability"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/store"
	"github.com/priya/yatri/internal/tools"
	"github.com/priya/yatri/internal/travel"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type turnIDKey struct{}

// WithTurnID stamps a turn identifier onto the context so every log event of
// the turn correlates.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, id)
}

func currentTurnID(ctx context.Context) string {
	if id, ok := ctx.Value(turnIDKey{}).(string); ok {
		return id
	}
	return ""
}

// TurnResult is what a host surface gets back for one processed message.
type TurnResult struct {
	Text       string
	ToolsUsed  []string
	Confidence float64
	SessionID  string
}

// Assistant wires the whole turn pipeline: slot extraction, planning or
// follow-up recovery, execution, and narration. ProcessTurn never returns an
// error to the caller; every internal failure degrades to a usable reply.
type Assistant struct {
	Sessions *session.Store
	Prefs    *store.PreferenceStore
	Planner  *Planner
	Executor *Executor
	Model    llms.Model
	Prompts  *PromptManager
	Logger   *observability.Logger

	MaxIterations   int
	RequireApproval bool
}

func NewAssistant(sessions *session.Store, prefs *store.PreferenceStore, planner *Planner, executor *Executor, model llms.Model, prompts *PromptManager, logger *observability.Logger) *Assistant {
	return &Assistant{
		Sessions:      sessions,
		Prefs:         prefs,
		Planner:       planner,
		Executor:      executor,
		Model:         model,
		Prompts:       prompts,
		Logger:        logger,
		MaxIterations: 5,
	}
}

// ProcessTurn handles one inbound message end to end and returns the reply.
func (a *Assistant) ProcessTurn(ctx context.Context, sessionID, userID, message string) *TurnResult {
	turnID := uuid.NewString()
	ctx = WithTurnID(ctx, turnID)

	sess := a.Sessions.GetOrCreate(sessionID, userID)

	// First contact: seed the session with whatever the durable store knows
	// about this traveler. Store failures never block the turn.
	_, history, _ := sess.Snapshot()
	if len(history) == 0 && a.Prefs != nil {
		if saved, err := a.Prefs.LoadProfile(userID); err == nil {
			sess.MergeProfile(saved)
		} else {
			log.Printf("profile load for %s failed: %v", userID, err)
		}
	}

	// Slot extraction runs on every turn before planning so the planner and
	// tools see the freshest profile.
	update := extract.Extract(message)
	sess.MergeProfile(update)
	cities, _ := extract.Destinations(message)
	for _, city := range cities {
		sess.RecordTripTopic(city)
	}

	observability.SetStatus(observability.PhasePlanning, turnID)
	plan, recovered := RecoverFollowUp(message, sess)
	if !recovered {
		plan = a.Planner.CreatePlan(ctx, message, sess)
	}
	if a.Logger != nil {
		a.Logger.LogPlan(sessionID, turnID, plan.Intent, len(plan.Steps), plan.Confidence)
	}

	// A flight search without an origin is unanswerable. Patch it from the
	// profile, or ask and remember that we asked.
	if reply, asked := a.ensureOrigin(plan, sess); asked {
		sess.RecordTurn(message, reply)
		observability.SetStatus(observability.PhaseIdle, "")
		return &TurnResult{Text: reply, Confidence: plan.Confidence, SessionID: sessionID}
	}

	observability.SetStatus(observability.PhaseExecuting, turnID)
	requireApproval := a.RequireApproval || plan.NeedsHumanApproval
	result := a.Executor.Execute(ctx, plan, sess, requireApproval, a.maxIterations())

	a.recordSearches(sess, result)

	observability.SetStatus(observability.PhaseNarrating, turnID)
	text := a.narrate(ctx, sessionID, turnID, message, sess, result)
	if result.AwaitingApproval {
		text += "\n\n⚠️ Part of this request changes saved state and would normally wait for your confirmation."
	}

	sess.RecordTurn(message, text)
	observability.SetStatus(observability.PhaseIdle, "")

	return &TurnResult{
		Text:       text,
		ToolsUsed:  result.ToolsUsed,
		Confidence: plan.Confidence,
		SessionID:  sessionID,
	}
}

// ensureOrigin fills a missing flight_search origin from the stored home
// city, or returns the clarifying question when nothing is known.
func (a *Assistant) ensureOrigin(plan *ExecutionPlan, sess *session.Session) (string, bool) {
	profile, _, _ := sess.Snapshot()
	for i := range plan.Steps {
		if plan.Steps[i].Action != tools.ActionFlightSearch {
			continue
		}
		origin, _ := plan.Steps[i].Params["origin"].(string)
		if origin != "" {
			continue
		}
		if profile.HomeCity != "" {
			plan.Steps[i].Params["origin"] = profile.HomeCity
			continue
		}
		return AskOrigin, true
	}
	return "", false
}

func (a *Assistant) maxIterations() int {
	if a.MaxIterations > 0 {
		return a.MaxIterations
	}
	return 5
}

// recordSearches mirrors search-shaped tool outputs into the session log and
// the durable store. Neither write is allowed to fail the turn.
func (a *Assistant) recordSearches(sess *session.Session, result *ExecutionResult) {
	for _, out := range result.Outputs {
		if out.Failed() {
			continue
		}
		var rec travel.SearchRecord
		switch data := out.Data.(type) {
		case *travel.FlightResults:
			rec = travel.SearchRecord{
				Kind:    "flight",
				Query:   fmt.Sprintf("%s -> %v", data.Query.Origin, data.Query.Destinations),
				Results: len(data.Options),
			}
		case *travel.HotelResults:
			rec = travel.SearchRecord{Kind: "hotel", Query: data.Query.City, Results: len(data.Options)}
		case *travel.DestinationFacts:
			rec = travel.SearchRecord{Kind: "destination", Query: data.Name, Results: 1}
		default:
			continue
		}
		sess.RecordSearch(rec)
		if a.Prefs != nil {
			if err := a.Prefs.LogSearch(sess.ID, rec); err != nil {
				log.Printf("search log write failed: %v", err)
			}
		}
	}
}

// narrate asks the model to phrase the tool results conversationally, falling
// back to the deterministic synthesizer on any model trouble.
func (a *Assistant) narrate(ctx context.Context, sessionID, turnID, message string, sess *session.Session, result *ExecutionResult) string {
	if a.Model == nil {
		return Synthesize(result, message)
	}

	profile, _, _ := sess.Snapshot()
	profileJSON, _ := json.Marshal(profile)
	resultsJSON, _ := json.MarshalIndent(result.Outputs, "", "  ")

	systemPrompt := fmt.Sprintf(
		"%s\n\n## Traveler profile:\n%s\n\n## Tool results (answer ONLY from these):\n%s",
		a.Prompts.GetNarratorPrompt(),
		string(profileJSON),
		string(resultsJSON),
	)
	messages := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(systemPrompt)}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(message)}},
	}

	resp, err := a.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(900),
	)
	if err != nil {
		if errors.Is(err, llm.ErrThrottled) {
			log.Printf("narration throttled, synthesizing from tool results")
		} else {
			log.Printf("narration call failed, synthesizing from tool results: %v", err)
		}
		return Synthesize(result, message)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return Synthesize(result, message)
	}

	if a.Logger != nil {
		a.Logger.LogLLM(sessionID, turnID, "narration", resp.Choices[0].Content)
	}
	return resp.Choices[0].Content
}
