package agent

import (
	"fmt"
	"strings"

	"github.com/priya/yatri/internal/tools"
	"github.com/priya/yatri/internal/travel"
)

const maxHotelsShown = 3

// Synthesize renders a user-facing answer directly from tool outputs, with
// no model call. It is the fallback whenever the model's narration is empty
// or throttled, so it must produce something useful from whatever ran.
func Synthesize(result *ExecutionResult, message string) string {
	var sections []string

	// Fixed per-type order keeps replies deterministic regardless of map
	// iteration.
	if out, ok := result.Outputs[string(tools.ActionFlightSearch)]; ok && !out.Failed() {
		if flights, ok := out.Data.(*travel.FlightResults); ok {
			sections = append(sections, renderFlights(flights))
		}
	}
	if out, ok := result.Outputs[string(tools.ActionHotelSearch)]; ok && !out.Failed() {
		if hotels, ok := out.Data.(*travel.HotelResults); ok {
			sections = append(sections, renderHotels(hotels))
		}
	}
	if out, ok := result.Outputs[string(tools.ActionDestinationInfo)]; ok && !out.Failed() {
		if facts, ok := out.Data.(*travel.DestinationFacts); ok {
			sections = append(sections, renderDestination(facts))
		}
	}
	if out, ok := result.Outputs[string(tools.ActionBudgetCalculator)]; ok && !out.Failed() {
		if budget, ok := out.Data.(*travel.BudgetBreakdown); ok {
			sections = append(sections, renderBudget(budget))
		}
	}
	for _, action := range []tools.Action{tools.ActionSavePreferences, tools.ActionWatchPrices, tools.ActionGeneralAssistance} {
		if out, ok := result.Outputs[string(action)]; ok && !out.Failed() {
			if text, ok := out.Data.(string); ok && text != "" {
				sections = append(sections, text)
			}
		}
	}

	// Surface failures briefly so the user knows what did not run.
	var failures []string
	for _, out := range orderedFailures(result) {
		failures = append(failures, fmt.Sprintf("- %s: %s", out.Action, out.Err))
	}
	if len(failures) > 0 {
		sections = append(sections, "Some lookups didn't work:\n"+strings.Join(failures, "\n"))
	}

	if len(sections) == 0 {
		sections = append(sections, "I couldn't fetch any results just now. Please try again in a moment.")
	}

	sections = append(sections, nextSteps())
	return strings.Join(sections, "\n\n")
}

func renderFlights(r *travel.FlightResults) string {
	if len(r.Options) == 0 {
		dests := strings.Join(r.Query.Destinations, ", ")
		return fmt.Sprintf("✈️ No flights found from %s to %s for those dates.", r.Query.Origin, dests)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✈️ Flight options from %s:\n", r.Query.Origin)
	for i, opt := range r.Options {
		if i >= 6 {
			fmt.Fprintf(&b, "...and %d more fares.\n", len(r.Options)-i)
			break
		}
		stops := "non-stop"
		if opt.Stops == 1 {
			stops = "1 stop"
		} else if opt.Stops > 1 {
			stops = fmt.Sprintf("%d stops", opt.Stops)
		}
		fmt.Fprintf(&b, "%d. %s → %s, $%.0f, %s, %s (%s)\n",
			i+1, opt.Origin, opt.Destination, opt.PriceUSD, opt.Duration, stops, opt.Airline)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderHotels(r *travel.HotelResults) string {
	if len(r.Options) == 0 {
		return fmt.Sprintf("🏨 No stays found in %s within that price range.", r.Query.City)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏨 Places to stay in %s:\n", r.Query.City)
	shown := len(r.Options)
	if shown > maxHotelsShown {
		shown = maxHotelsShown
	}
	for i := 0; i < shown; i++ {
		opt := r.Options[i]
		fmt.Fprintf(&b, "%d. %s, $%.0f/night, %.1f★, %s\n",
			i+1, opt.Name, opt.PricePerNight, opt.Rating, strings.Join(opt.Amenities, ", "))
	}
	if rest := len(r.Options) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more options.\n", rest)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDestination(f *travel.DestinationFacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 %s", f.Name)
	if f.Country != "" {
		fmt.Fprintf(&b, ", %s", f.Country)
	}
	b.WriteString("\n")
	if f.BestSeason != "" {
		fmt.Fprintf(&b, "Best time to visit: %s\n", f.BestSeason)
	}
	if f.Currency != "" {
		fmt.Fprintf(&b, "Currency: %s\n", f.Currency)
	}
	if len(f.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(f.Languages, ", "))
	}
	if f.DailyBudget > 0 {
		fmt.Fprintf(&b, "Typical daily budget: $%.0f\n", f.DailyBudget)
	}
	if len(f.Highlights) > 0 {
		fmt.Fprintf(&b, "Highlights: %s\n", strings.Join(f.Highlights, "; "))
	}
	if f.TravelAdvice != "" {
		fmt.Fprintf(&b, "%s\n", f.TravelAdvice)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBudget(bd *travel.BudgetBreakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 Estimated cost for %d days in %s (%d traveler(s)):\n",
		bd.Days, bd.Destination, bd.Travelers)
	fmt.Fprintf(&b, "Flights:    $%.0f\n", bd.FlightsUSD)
	fmt.Fprintf(&b, "Lodging:    $%.0f\n", bd.LodgingUSD)
	fmt.Fprintf(&b, "Food:       $%.0f\n", bd.FoodUSD)
	fmt.Fprintf(&b, "Activities: $%.0f\n", bd.ActivitiesUSD)
	fmt.Fprintf(&b, "Total:      $%.0f", bd.TotalUSD)
	if bd.WithinBudget != nil {
		if *bd.WithinBudget {
			b.WriteString("\nThat fits inside your stated budget.")
		} else {
			b.WriteString("\nThat's over your stated budget — consider fewer days or a budget style.")
		}
	}
	return b.String()
}

func orderedFailures(result *ExecutionResult) []StepOutcome {
	var out []StepOutcome
	for _, action := range []tools.Action{
		tools.ActionFlightSearch, tools.ActionHotelSearch, tools.ActionDestinationInfo,
		tools.ActionBudgetCalculator, tools.ActionSavePreferences, tools.ActionWatchPrices,
		tools.ActionGeneralAssistance,
	} {
		if o, ok := result.Outputs[string(action)]; ok && o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

func nextSteps() string {
	return strings.Join([]string{
		"What next?",
		"- Compare flights: \"flights to Goa from Mumbai\"",
		"- Find a stay: \"hotels in Bali under $80\"",
		"- Plan a budget: \"what would 10 days in Bangkok cost?\"",
		"- Watch fares: \"watch prices for Mumbai to Dubai\"",
	}, "\n")
}
