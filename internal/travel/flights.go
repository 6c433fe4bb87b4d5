package travel

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// StaticFlightProvider serves deterministic sample fares. It stands in for a
// real GDS/aggregator integration; prices are derived from a hash of the
// route so the same query always returns the same options.
type StaticFlightProvider struct {
	Airlines []string
}

func NewStaticFlightProvider() *StaticFlightProvider {
	return &StaticFlightProvider{
		Airlines: []string{"IndiGo", "Air India", "Emirates", "Qatar Airways", "Singapore Airlines"},
	}
}

func (p *StaticFlightProvider) SearchFlights(ctx context.Context, q FlightQuery) (*FlightResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Origin == "" {
		return nil, fmt.Errorf("flight search requires an origin city")
	}
	if len(q.Destinations) == 0 {
		return nil, fmt.Errorf("flight search requires at least one destination")
	}

	results := &FlightResults{Query: q}
	for _, dest := range q.Destinations {
		if strings.EqualFold(dest, q.Origin) {
			continue
		}
		seed := routeSeed(q.Origin, dest)
		// Three fare classes per route, cheapest airline first.
		for i := 0; i < 3; i++ {
			airline := p.Airlines[(seed+uint32(i))%uint32(len(p.Airlines))]
			base := 120 + float64(seed%700)
			hours := 2 + int(seed%11)
			results.Options = append(results.Options, FlightOption{
				Airline:     airline,
				Origin:      q.Origin,
				Destination: dest,
				PriceUSD:    base + float64(i)*95,
				Duration:    fmt.Sprintf("%dh %02dm", hours+i, (seed*7)%60),
				Stops:       i % 2,
			})
		}
	}

	sort.SliceStable(results.Options, func(i, j int) bool {
		return results.Options[i].PriceUSD < results.Options[j].PriceUSD
	})
	return results, nil
}

func routeSeed(origin, dest string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(origin)))
	h.Write([]byte("->"))
	h.Write([]byte(strings.ToLower(dest)))
	return h.Sum32()
}
