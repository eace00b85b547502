package entities

import (
	"fmt"
	"strings"
)

// Urgency represents how quickly the client needs the service
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Tier identifies a candidate-locating strategy, ordered by priority
// (TierExactService is the most specific, TierSynthetic the least)
type Tier int

const (
	TierExactService Tier = iota + 1
	TierSkillMatch
	TierFuzzyCategory
	TierLocationExpanded
	TierSynthetic
)

// String returns the wire name of the tier
func (t Tier) String() string {
	switch t {
	case TierExactService:
		return "exact_service"
	case TierSkillMatch:
		return "skill_match"
	case TierFuzzyCategory:
		return "fuzzy_category"
	case TierLocationExpanded:
		return "location_expanded"
	case TierSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("tier_%d", int(t))
	}
}

// Budget is an optional price range constraint on a match request
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MatchRequest describes one provider search. The pipeline fills
// optional fields with defaults before matching begins and treats the
// request as read-only afterwards.
type MatchRequest struct {
	Category        string    `json:"category"`
	Area            string    `json:"area"`
	Coordinates     *Location `json:"coordinates,omitempty"`
	Date            string    `json:"date"`       // YYYY-MM-DD
	StartTime       string    `json:"start_time"` // HH:MM local
	DurationMinutes int       `json:"duration_minutes"`
	Urgency         Urgency   `json:"urgency"`
	Budget          *Budget   `json:"budget,omitempty"`
	ProvidersNeeded int       `json:"providers_needed"`
	Limit           int       `json:"limit,omitempty"`
}

// Window returns the requested half-open time window
func (r *MatchRequest) Window() (TimeWindow, error) {
	start, err := ParseClockTime(r.StartTime)
	if err != nil {
		return TimeWindow{}, err
	}
	duration := r.DurationMinutes
	if duration <= 0 {
		duration = 120
	}
	return TimeWindow{Start: start, End: start + duration}, nil
}

// Validate checks the required fields and returns the names of any that
// are missing or malformed
func (r *MatchRequest) Validate() []string {
	var missing []string
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Area) == "" {
		missing = append(missing, "location.area")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.StartTime) == "" {
		missing = append(missing, "time")
	} else if _, err := ParseClockTime(r.StartTime); err != nil {
		missing = append(missing, "time")
	}
	return missing
}

// MatchCandidate is a provider under evaluation for a single request.
// Candidates are pipeline-local and never persisted.
type MatchCandidate struct {
	Provider      *Provider
	Listing       *ServiceListing // nil until a listing is attached
	Tier          Tier
	ConflictCount int // same-day occupying bookings, overlapping or not
}

// ScoreBreakdown records each scoring component for diagnostics
type ScoreBreakdown map[string]float64

// MatchResult is one ranked entry in a match response
type MatchResult struct {
	Provider     *Provider       `json:"provider"`
	Listing      *ServiceListing `json:"listing,omitempty"`
	FinalScore   int             `json:"final_score"`
	Breakdown    ScoreBreakdown  `json:"score_breakdown"`
	TiersMatched []Tier          `json:"-"`
}

// TierNames returns the wire names of the tiers that produced this
// result, in discovery order
func (r *MatchResult) TierNames() []string {
	names := make([]string, len(r.TiersMatched))
	for i, t := range r.TiersMatched {
		names[i] = t.String()
	}
	return names
}
