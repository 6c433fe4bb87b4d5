package agent

import (
	"fmt"
	"strings"

	"github.com/priya/yatri/internal/extract"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/tools"
)

// clarifyingPhrases are the fixed questions the assistant asks when the
// origin city is missing. Follow-up detection matches on these substrings;
// changing the wording of AskOrigin without updating this list breaks
// recovery.
var clarifyingPhrases = []string{
	"where are you flying from",
	"which city would you like me to check flight prices for",
	"which city are you flying from",
	"what is your departure city",
}

// AskOrigin is the clarifying question sent when a flight search has no
// origin. Its wording must stay in sync with clarifyingPhrases.
const AskOrigin = "Where are you flying from? Tell me your departure city and I'll compare fares."

// RecoverFollowUp reinterprets a bare city-name reply as the answer to the
// previous clarifying question, rebuilding the original flight request as a
// deterministic plan. It scans session history backward for the most recent
// user message with concrete destinations, preferring city-level matches over
// purely regional ones ("Asia") whenever any city-level match exists.
func RecoverFollowUp(message string, sess *session.Session) (*ExecutionPlan, bool) {
	_, history, lastAssistant := sess.Snapshot()

	if !isClarifyingQuestion(lastAssistant) {
		return nil, false
	}

	cities := extract.BareCityReply(message)
	if len(cities) == 0 {
		return nil, false
	}
	origin := cities[0]

	var destinations []string
	var regionFallback []string
	for i := len(history) - 1; i >= 0; i-- {
		destCities, destRegions := extract.Destinations(history[i].UserText)
		destCities = without(destCities, origin)
		if len(destCities) > 0 {
			destinations = destCities
			break
		}
		if regionFallback == nil && len(destRegions) > 0 {
			regionFallback = destRegions
		}
	}
	if len(destinations) == 0 {
		destinations = regionFallback
	}
	if len(destinations) == 0 {
		return nil, false
	}

	return &ExecutionPlan{
		Intent: "flight_search",
		Steps: []Step{{
			Action: tools.ActionFlightSearch,
			Params: map[string]any{
				"origin":       origin,
				"destinations": destinations,
			},
			Reasoning: fmt.Sprintf("user answered the origin question with %s", origin),
		}},
		Confidence:         0.9,
		NeedsHumanApproval: false,
		Reasoning:          "recovered destinations from earlier in the conversation",
	}, true
}

func isClarifyingQuestion(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range clarifyingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func without(items []string, drop string) []string {
	out := items[:0]
	for _, v := range items {
		if !strings.EqualFold(v, drop) {
			out = append(out, v)
		}
	}
	return out
}
