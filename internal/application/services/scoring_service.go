package services

import (
	"math"
	"strings"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// Scoring weights and caps. Documented here so scores stay reproducible
// across releases.
const (
	scoreTierExactService     = 50.0
	scoreTierSkillMatch       = 20.0
	scoreTierFuzzyCategory    = 15.0
	scoreTierLocationExpanded = 10.0
	scoreTierSynthetic        = 5.0

	scoreTitleMatchBonus = 30.0

	scoreRatingWeight  = 25.0
	scoreReviewsCap    = 15.0
	scoreJobsWeight    = 10.0
	scoreJobsCapFactor = 2.0

	scoreAreaExact    = 10.0
	scoreAreaCitywide = 5.0

	scoreBudgetUnderMax = 10.0
	scoreBudgetOverMin  = 5.0

	scoreBusynessPerBooking = 2.0
	scoreBusynessCap        = 10.0

	urgencyFactorEmergency = 0.8
	urgencyFactorUrgent    = 0.9
	urgencyFactorNormal    = 1.0
)

// ScoringService computes the weighted match score of a candidate
type ScoringService struct{}

// NewScoringService creates a scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score computes the candidate's total score and its breakdown. The
// urgency multiplier dampens the pre-penalty subtotal; the busy-ness
// penalty lands afterwards. The total is rounded to the nearest integer
// and never negative.
func (s *ScoringService) Score(candidate *entities.MatchCandidate, category NormalizedCategory, req *entities.MatchRequest) (int, entities.ScoreBreakdown) {
	view := entities.NewProviderView(candidate.Provider)
	breakdown := entities.ScoreBreakdown{}

	base := tierBase(candidate.Tier)
	breakdown["tier_base"] = base

	titleBonus := 0.0
	if candidate.Listing != nil && titleMatchesKeywords(candidate.Listing.Title, category.Keywords) {
		titleBonus = scoreTitleMatchBonus
	}
	breakdown["title_match"] = titleBonus

	rating := view.Rating() / 5.0 * scoreRatingWeight
	breakdown["rating"] = rating

	reviews := math.Min(float64(view.ReviewCount())/20.0, 1.0) * scoreReviewsCap
	breakdown["reviews"] = reviews

	jobs := math.Min(float64(view.CompletedJobs())/10.0, scoreJobsCapFactor) * scoreJobsWeight
	breakdown["job_history"] = jobs

	location := 0.0
	switch {
	case view.HasExactArea(req.Area):
		location = scoreAreaExact
	case view.CoversCitywide() || view.ServesEverywhere():
		location = scoreAreaCitywide
	}
	breakdown["location"] = location

	budget := budgetScore(view, candidate.Listing, req.Budget)
	breakdown["budget"] = budget

	factor := urgencyFactor(req.Urgency)
	breakdown["urgency_multiplier"] = factor

	penalty := math.Min(float64(candidate.ConflictCount)*scoreBusynessPerBooking, scoreBusynessCap)
	breakdown["busyness_penalty"] = -penalty

	subtotal := base + titleBonus + rating + reviews + jobs + location + budget
	total := subtotal*factor - penalty
	if total < 0 {
		total = 0
	}

	return int(math.Round(total)), breakdown
}

// tierBase returns the priority base score of a tier
func tierBase(tier entities.Tier) float64 {
	switch tier {
	case entities.TierExactService:
		return scoreTierExactService
	case entities.TierSkillMatch:
		return scoreTierSkillMatch
	case entities.TierFuzzyCategory:
		return scoreTierFuzzyCategory
	case entities.TierLocationExpanded:
		return scoreTierLocationExpanded
	case entities.TierSynthetic:
		return scoreTierSynthetic
	default:
		return 0
	}
}

// titleMatchesKeywords reports whether the listing title contains any of
// the requested keywords
func titleMatchesKeywords(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// budgetScore rewards candidates whose rate fits the client's budget.
// The provider's hourly rate is preferred; a priced listing stands in
// when the profile has none. Without a budget or a rate the component
// is zero.
func budgetScore(view entities.ProviderView, listing *entities.ServiceListing, budget *entities.Budget) float64 {
	if budget == nil {
		return 0
	}

	rate, ok := view.HourlyRate()
	if !ok {
		if listing == nil || listing.Price <= 0 {
			return 0
		}
		rate = listing.Price
	}

	score := 0.0
	if budget.Max > 0 && rate <= budget.Max {
		score += scoreBudgetUnderMax
	}
	if budget.Min > 0 && rate >= budget.Min {
		score += scoreBudgetOverMin
	}
	return score
}

// urgencyFactor returns the canonical urgency multiplier
func urgencyFactor(urgency entities.Urgency) float64 {
	switch urgency {
	case entities.UrgencyEmergency:
		return urgencyFactorEmergency
	case entities.UrgencyUrgent:
		return urgencyFactorUrgent
	default:
		return urgencyFactorNormal
	}
}
