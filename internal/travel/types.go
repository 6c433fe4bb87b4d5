package travel

import (
	"context"
	"time"
)

// FlightQuery describes one flight search request.
type FlightQuery struct {
	Origin       string   `json:"origin"`
	Destinations []string `json:"destinations"`
	DepartDate   string   `json:"depart_date,omitempty"`
	ReturnDate   string   `json:"return_date,omitempty"`
	Passengers   int      `json:"passengers,omitempty"`
}

// FlightOption is a single bookable flight.
type FlightOption struct {
	Airline     string  `json:"airline"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	PriceUSD    float64 `json:"price_usd"`
	Duration    string  `json:"duration"`
	Stops       int     `json:"stops"`
}

// FlightResults is the output of one flight search.
type FlightResults struct {
	Query   FlightQuery    `json:"query"`
	Options []FlightOption `json:"options"`
}

// HotelQuery describes one hotel search request.
type HotelQuery struct {
	City     string  `json:"city"`
	CheckIn  string  `json:"check_in,omitempty"`
	CheckOut string  `json:"check_out,omitempty"`
	Guests   int     `json:"guests,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
}

// HotelOption is a single hotel listing.
type HotelOption struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	PricePerNight float64  `json:"price_per_night"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
}

// HotelResults is the output of one hotel search.
type HotelResults struct {
	Query   HotelQuery    `json:"query"`
	Options []HotelOption `json:"options"`
}

// DestinationFacts is the structured profile of one destination.
type DestinationFacts struct {
	Name         string   `json:"name"`
	Country      string   `json:"country"`
	BestSeason   string   `json:"best_season"`
	Currency     string   `json:"currency"`
	Languages    []string `json:"languages"`
	DailyBudget  float64  `json:"daily_budget_usd"`
	Highlights   []string `json:"highlights"`
	TravelAdvice string   `json:"travel_advice,omitempty"`
	GuideExcerpt string   `json:"guide_excerpt,omitempty"`
}

// BudgetQuery describes one budget estimate request.
type BudgetQuery struct {
	Destination string  `json:"destination"`
	Days        int     `json:"days"`
	Travelers   int     `json:"travelers"`
	Style       string  `json:"style,omitempty"`
	TotalBudget float64 `json:"total_budget,omitempty"`
}

// BudgetBreakdown is an itemized trip cost estimate.
type BudgetBreakdown struct {
	Destination   string  `json:"destination"`
	Days          int     `json:"days"`
	Travelers     int     `json:"travelers"`
	FlightsUSD    float64 `json:"flights_usd"`
	LodgingUSD    float64 `json:"lodging_usd"`
	FoodUSD       float64 `json:"food_usd"`
	ActivitiesUSD float64 `json:"activities_usd"`
	TotalUSD      float64 `json:"total_usd"`
	WithinBudget  *bool   `json:"within_budget,omitempty"`
}

// SearchRecord is one entry in a session's search history.
type SearchRecord struct {
	Kind      string    `json:"kind"` // flight, hotel, destination
	Query     string    `json:"query"`
	Results   int       `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// FlightProvider searches flights for a set of destinations.
type FlightProvider interface {
	SearchFlights(ctx context.Context, q FlightQuery) (*FlightResults, error)
}

// HotelProvider searches hotels in a city.
type HotelProvider interface {
	SearchHotels(ctx context.Context, q HotelQuery) (*HotelResults, error)
}

// DestinationProvider looks up facts about a destination.
type DestinationProvider interface {
	Lookup(ctx context.Context, name string) (*DestinationFacts, error)
}
