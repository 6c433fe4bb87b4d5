package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Profile holds everything the assistant knows about a traveler. Every field
// is optional; the zero value means "not stated yet".
type Profile struct {
	Budget              float64  `json:"budget,omitempty"`
	TravelStyle         string   `json:"travel_style,omitempty"` // budget, mid-range, luxury
	Interests           []string `json:"interests,omitempty"`
	Accommodation       string   `json:"accommodation,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	TravelPace          string   `json:"travel_pace,omitempty"`      // relaxed, packed
	CrowdPreference     string   `json:"crowd_preference,omitempty"` // avoid-crowds, popular
	ClimatePreference   string   `json:"climate_preference,omitempty"`
	TripDurationDays    int      `json:"trip_duration_days,omitempty"`
	TravelCompanions    string   `json:"travel_companions,omitempty"` // solo, couple, family, friends
	AccessibilityNeeds  []string `json:"accessibility_needs,omitempty"`
	LanguagePreference  string   `json:"language_preference,omitempty"`
	TransportPreference string   `json:"transport_preference,omitempty"`
	VisaConcerns        bool     `json:"visa_concerns,omitempty"`
	SafetyPriority      bool     `json:"safety_priority,omitempty"`
	HomeCity            string   `json:"home_city,omitempty"`
}

// Merge folds a partial update into the profile. Scalars overwrite when set;
// list fields union with existing values. Merging the same update twice gives
// the same profile as merging it once.
func (p *Profile) Merge(upd Profile) {
	if upd.Budget != 0 {
		p.Budget = upd.Budget
	}
	if upd.TravelStyle != "" {
		p.TravelStyle = upd.TravelStyle
	}
	p.Interests = unionStrings(p.Interests, upd.Interests)
	if upd.Accommodation != "" {
		p.Accommodation = upd.Accommodation
	}
	p.DietaryRestrictions = unionStrings(p.DietaryRestrictions, upd.DietaryRestrictions)
	if upd.TravelPace != "" {
		p.TravelPace = upd.TravelPace
	}
	if upd.CrowdPreference != "" {
		p.CrowdPreference = upd.CrowdPreference
	}
	if upd.ClimatePreference != "" {
		p.ClimatePreference = upd.ClimatePreference
	}
	if upd.TripDurationDays != 0 {
		p.TripDurationDays = upd.TripDurationDays
	}
	if upd.TravelCompanions != "" {
		p.TravelCompanions = upd.TravelCompanions
	}
	p.AccessibilityNeeds = unionStrings(p.AccessibilityNeeds, upd.AccessibilityNeeds)
	if upd.LanguagePreference != "" {
		p.LanguagePreference = upd.LanguagePreference
	}
	if upd.TransportPreference != "" {
		p.TransportPreference = upd.TransportPreference
	}
	if upd.VisaConcerns {
		p.VisaConcerns = true
	}
	if upd.SafetyPriority {
		p.SafetyPriority = true
	}
	if upd.HomeCity != "" {
		p.HomeCity = upd.HomeCity
	}
}

func unionStrings(existing, extra []string) []string {
	if len(extra) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	out := existing
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// slotRule is one independent category of the cascade. Rules never see each
// other's output; several may fire on the same message.
type slotRule struct {
	name  string
	apply func(lower string, upd *Profile)
}

var (
	budgetAmountRe = regexp.MustCompile(`(?:\$|usd\s?|rs\.?\s?|inr\s?|€)\s?(\d[\d,]*)|(\d[\d,]*)\s?(?:dollars|usd|bucks|rupees)`)
	durationDaysRe = regexp.MustCompile(`(\d+)\s*(?:days?|nights?)`)
	durationWksRe  = regexp.MustCompile(`(\d+)\s*weeks?`)
	originRe       = regexp.MustCompile(`(?:flying from|fly from|flying out of|departing from|based in|i live in|i'm from|im from|my home city is|starting from)\s+([a-z][a-z .'-]{1,40})`)
)

var slotRules = []slotRule{
	{"budget-amount", func(lower string, upd *Profile) {
		m := budgetAmountRe.FindStringSubmatch(lower)
		if m == nil {
			return
		}
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64); err == nil && v > 0 {
			upd.Budget = v
		}
	}},
	{"travel-style", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "budget", "cheap", "backpack", "shoestring", "affordable"):
			upd.TravelStyle = "budget"
		case containsAny(lower, "luxury", "luxurious", "5-star", "five star", "high-end", "high end"):
			upd.TravelStyle = "luxury"
		case containsAny(lower, "mid-range", "mid range", "moderate", "comfortable but"):
			upd.TravelStyle = "mid-range"
		}
	}},
	{"interests", func(lower string, upd *Profile) {
		for _, kw := range []string{
			"beaches", "beach", "hiking", "trekking", "food", "street food", "culture",
			"history", "nightlife", "diving", "snorkeling", "surfing", "temples",
			"museums", "wildlife", "safari", "photography", "shopping", "architecture",
			"festivals", "yoga", "skiing",
		} {
			if wordIndex(lower, kw) >= 0 {
				upd.Interests = append(upd.Interests, normalizeInterest(kw))
			}
		}
	}},
	{"accommodation", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "hostel", "dorm"):
			upd.Accommodation = "hostel"
		case containsAny(lower, "resort"):
			upd.Accommodation = "resort"
		case containsAny(lower, "airbnb", "homestay", "guesthouse", "guest house"):
			upd.Accommodation = "homestay"
		case containsAny(lower, "villa"):
			upd.Accommodation = "villa"
		case containsAny(lower, "hotel"):
			upd.Accommodation = "hotel"
		}
	}},
	{"dietary", func(lower string, upd *Profile) {
		for _, kw := range []string{"vegetarian", "vegan", "halal", "kosher", "gluten-free", "gluten free"} {
			if strings.Contains(lower, kw) {
				upd.DietaryRestrictions = append(upd.DietaryRestrictions, strings.ReplaceAll(kw, " ", "-"))
			}
		}
	}},
	{"pace", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "relaxed", "slow travel", "laid back", "laid-back", "take it easy", "chill"):
			upd.TravelPace = "relaxed"
		case containsAny(lower, "packed", "fast-paced", "fast paced", "see everything", "jam-packed"):
			upd.TravelPace = "packed"
		}
	}},
	{"crowds", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "avoid crowds", "off the beaten", "quiet places", "less touristy", "hidden gems"):
			upd.CrowdPreference = "avoid-crowds"
		case containsAny(lower, "popular spots", "famous places", "touristy", "main attractions"):
			upd.CrowdPreference = "popular"
		}
	}},
	{"climate", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "warm weather", "tropical", "sunny", "somewhere warm", "hot weather"):
			upd.ClimatePreference = "warm"
		case containsAny(lower, "cold weather", "snow", "somewhere cold", "winter wonderland"):
			upd.ClimatePreference = "cold"
		case containsAny(lower, "mild weather", "spring weather", "temperate"):
			upd.ClimatePreference = "mild"
		}
	}},
	{"duration", func(lower string, upd *Profile) {
		if m := durationWksRe.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
				upd.TripDurationDays = v * 7
				return
			}
		}
		if m := durationDaysRe.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
				upd.TripDurationDays = v
			}
		}
	}},
	{"companions", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "solo", "by myself", "alone", "on my own"):
			upd.TravelCompanions = "solo"
		case containsAny(lower, "honeymoon", "my partner", "my wife", "my husband", "couple", "girlfriend", "boyfriend"):
			upd.TravelCompanions = "couple"
		case containsAny(lower, "family", "with kids", "with my kids", "with children", "my parents"):
			upd.TravelCompanions = "family"
		case containsAny(lower, "friends", "group of", "with my friends"):
			upd.TravelCompanions = "friends"
		}
	}},
	{"accessibility", func(lower string, upd *Profile) {
		for _, kw := range []string{"wheelchair", "step-free", "step free access", "accessible rooms", "mobility"} {
			if strings.Contains(lower, kw) {
				upd.AccessibilityNeeds = append(upd.AccessibilityNeeds, strings.ReplaceAll(kw, " ", "-"))
			}
		}
	}},
	{"language", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "english-speaking", "english speaking", "speak english"):
			upd.LanguagePreference = "english"
		case containsAny(lower, "hindi-speaking", "hindi speaking"):
			upd.LanguagePreference = "hindi"
		}
	}},
	{"transport", func(lower string, upd *Profile) {
		switch {
		case containsAny(lower, "road trip", "by car", "self-drive", "rent a car"):
			upd.TransportPreference = "car"
		case containsAny(lower, "by train", "rail pass", "train travel"):
			upd.TransportPreference = "train"
		case containsAny(lower, "public transport", "buses and metros"):
			upd.TransportPreference = "public-transport"
		}
	}},
	{"visa", func(lower string, upd *Profile) {
		if containsAny(lower, "visa-free", "visa free", "visa on arrival", "visa requirements", "need a visa") {
			upd.VisaConcerns = true
		}
	}},
	{"safety", func(lower string, upd *Profile) {
		if containsAny(lower, "is it safe", "safety", "safe for solo", "safe destination") {
			upd.SafetyPriority = true
		}
	}},
	{"origin-city", func(lower string, upd *Profile) {
		m := originRe.FindStringSubmatch(lower)
		if m == nil {
			return
		}
		if city, ok := matchGazetteerPrefix(m[1]); ok {
			upd.HomeCity = city
		}
		// unmatched captures are dropped, no fuzzy acceptance
	}},
}

// Extract pulls structured slot values out of free text. Every rule category
// runs independently; the returned partial update is empty when nothing
// matched. Extract never fails.
func Extract(text string) Profile {
	lower := strings.ToLower(text)
	var upd Profile
	for _, rule := range slotRules {
		rule.apply(lower, &upd)
	}
	return upd
}

// matchGazetteerPrefix validates a captured phrase against the gazetteer,
// trying the full capture first and then progressively shorter word
// prefixes ("mumbai next month" -> "mumbai").
func matchGazetteerPrefix(capture string) (string, bool) {
	words := strings.Fields(strings.TrimSpace(capture))
	for n := min(len(words), 3); n >= 1; n-- {
		if city, ok := LookupCity(strings.Join(words[:n], " ")); ok {
			return city, true
		}
	}
	return "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func normalizeInterest(kw string) string {
	switch kw {
	case "beach":
		return "beaches"
	case "street food":
		return "food"
	case "trekking":
		return "hiking"
	case "safari":
		return "wildlife"
	}
	return kw
}
