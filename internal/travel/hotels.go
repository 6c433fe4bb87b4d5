package travel

import (
	"context"
	"fmt"
	"sort"
)

// StaticHotelProvider serves deterministic sample listings, seeded by city
// name so repeated searches are stable.
type StaticHotelProvider struct{}

func NewStaticHotelProvider() *StaticHotelProvider {
	return &StaticHotelProvider{}
}

var hotelTiers = []struct {
	suffix    string
	price     float64
	rating    float64
	amenities []string
}{
	{"Backpackers Hostel", 18, 4.1, []string{"wifi", "shared kitchen"}},
	{"City Guesthouse", 42, 4.3, []string{"wifi", "breakfast"}},
	{"Boutique Stay", 85, 4.5, []string{"wifi", "breakfast", "pool"}},
	{"Grand Hotel", 160, 4.6, []string{"wifi", "pool", "spa", "gym"}},
	{"Palace Resort", 310, 4.8, []string{"wifi", "pool", "spa", "beach access"}},
}

func (p *StaticHotelProvider) SearchHotels(ctx context.Context, q HotelQuery) (*HotelResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.City == "" {
		return nil, fmt.Errorf("hotel search requires a city")
	}

	seed := routeSeed(q.City, "hotels")
	results := &HotelResults{Query: q}
	for i, tier := range hotelTiers {
		price := tier.price * (0.85 + float64((seed+uint32(i))%30)/100)
		if q.MaxPrice > 0 && price > q.MaxPrice {
			continue
		}
		results.Options = append(results.Options, HotelOption{
			Name:          fmt.Sprintf("%s %s", q.City, tier.suffix),
			City:          q.City,
			PricePerNight: float64(int(price*100)) / 100,
			Rating:        tier.rating,
			Amenities:     tier.amenities,
		})
	}

	sort.SliceStable(results.Options, func(i, j int) bool {
		return results.Options[i].PricePerNight < results.Options[j].PricePerNight
	})
	return results, nil
}
