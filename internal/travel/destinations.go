package travel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

// GuideDestinationProvider answers destination lookups from a built-in fact
// table, optionally enriched with the main content of a travel-guide page
// (readability-extracted, sanitized) or a DuckDuckGo search when the
// destination is not in the table.
type GuideDestinationProvider struct {
	UserAgent string
	GuideURLs map[string]string // lowercased destination -> guide page
	search    *duckduckgo.Tool
	client    *http.Client
}

func NewGuideDestinationProvider() *GuideDestinationProvider {
	ddg, err := duckduckgo.New(5, duckduckgo.DefaultUserAgent)
	if err != nil {
		ddg = nil // search enrichment disabled, fact table still works
	}
	return &GuideDestinationProvider{
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		GuideURLs: map[string]string{},
		search:    ddg,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
}

var destinationFacts = map[string]DestinationFacts{
	"bali": {
		Name: "Bali", Country: "Indonesia", BestSeason: "April to October",
		Currency: "IDR", Languages: []string{"Indonesian", "Balinese"},
		DailyBudget: 45,
		Highlights:  []string{"Ubud rice terraces", "Uluwatu temple", "Nusa Penida", "surfing in Canggu"},
	},
	"goa": {
		Name: "Goa", Country: "India", BestSeason: "November to February",
		Currency: "INR", Languages: []string{"Konkani", "English", "Hindi"},
		DailyBudget: 30,
		Highlights:  []string{"Palolem beach", "Old Goa churches", "spice plantations", "flea markets"},
	},
	"cebu": {
		Name: "Cebu", Country: "Philippines", BestSeason: "December to May",
		Currency: "PHP", Languages: []string{"Cebuano", "English", "Filipino"},
		DailyBudget: 40,
		Highlights:  []string{"Kawasan falls", "Moalboal sardine run", "Magellan's cross", "island hopping"},
	},
	"zanzibar": {
		Name: "Zanzibar", Country: "Tanzania", BestSeason: "June to October",
		Currency: "TZS", Languages: []string{"Swahili", "English"},
		DailyBudget: 55,
		Highlights:  []string{"Stone Town", "Nungwi beach", "spice tours", "Jozani forest"},
	},
	"tokyo": {
		Name: "Tokyo", Country: "Japan", BestSeason: "March to May",
		Currency: "JPY", Languages: []string{"Japanese"},
		DailyBudget: 110,
		Highlights:  []string{"Shibuya crossing", "Senso-ji", "Tsukiji outer market", "day trip to Hakone"},
	},
	"paris": {
		Name: "Paris", Country: "France", BestSeason: "April to June",
		Currency: "EUR", Languages: []string{"French"},
		DailyBudget: 130,
		Highlights:  []string{"Louvre", "Eiffel tower", "Montmartre", "Seine river walks"},
	},
	"bangkok": {
		Name: "Bangkok", Country: "Thailand", BestSeason: "November to February",
		Currency: "THB", Languages: []string{"Thai"},
		DailyBudget: 35,
		Highlights:  []string{"Grand Palace", "Chatuchak market", "street food in Chinatown", "canal boats"},
	},
	"lisbon": {
		Name: "Lisbon", Country: "Portugal", BestSeason: "March to May",
		Currency: "EUR", Languages: []string{"Portuguese"},
		DailyBudget: 85,
		Highlights:  []string{"Alfama", "Belem tower", "tram 28", "day trip to Sintra"},
	},
}

func (p *GuideDestinationProvider) Lookup(ctx context.Context, name string) (*DestinationFacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("destination lookup requires a name")
	}

	facts, known := destinationFacts[key]
	if !known {
		facts = DestinationFacts{Name: titleCase(key)}
		if p.search != nil {
			if res, err := p.search.Call(ctx, name+" travel guide"); err == nil {
				facts.TravelAdvice = clip(res, 600)
			}
		}
		if facts.TravelAdvice == "" {
			return nil, fmt.Errorf("no information available for %q", name)
		}
	}

	if guideURL, ok := p.GuideURLs[key]; ok {
		if excerpt, err := p.fetchGuide(ctx, guideURL); err == nil {
			facts.GuideExcerpt = excerpt
		}
	}
	return &facts, nil
}

// fetchGuide pulls the main content of a travel-guide page and strips any
// remaining markup before it is shown to the model or the user.
func (p *GuideDestinationProvider) fetchGuide(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch guide: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch guide: status code %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse guide URL: %v", err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse guide page: %v", err)
	}

	sanitized := bluemonday.StrictPolicy().Sanitize(article.TextContent)
	return clip(strings.TrimSpace(sanitized), 2000), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// EstimateBudget produces an itemized trip cost from the fact table's daily
// budget figures, falling back to a mid-range default for unknown places.
func EstimateBudget(q BudgetQuery) *BudgetBreakdown {
	daily := 75.0
	if facts, ok := destinationFacts[strings.ToLower(q.Destination)]; ok {
		daily = facts.DailyBudget
	}
	days := q.Days
	if days <= 0 {
		days = 7
	}
	travelers := q.Travelers
	if travelers <= 0 {
		travelers = 1
	}

	mult := 1.0
	switch strings.ToLower(q.Style) {
	case "budget":
		mult = 0.65
	case "luxury":
		mult = 2.2
	}

	perPerson := daily * float64(days) * mult
	b := &BudgetBreakdown{
		Destination:   q.Destination,
		Days:          days,
		Travelers:     travelers,
		FlightsUSD:    round2(450 * mult * float64(travelers)),
		LodgingUSD:    round2(perPerson * 0.40 * float64(travelers)),
		FoodUSD:       round2(perPerson * 0.35 * float64(travelers)),
		ActivitiesUSD: round2(perPerson * 0.25 * float64(travelers)),
	}
	b.TotalUSD = round2(b.FlightsUSD + b.LodgingUSD + b.FoodUSD + b.ActivitiesUSD)
	if q.TotalBudget > 0 {
		within := b.TotalUSD <= q.TotalBudget
		b.WithinBudget = &within
	}
	return b
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
