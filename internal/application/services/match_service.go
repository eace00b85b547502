package services

import (
	"context"
	"strings"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

// AlgorithmName identifies the matching strategy in response diagnostics
const AlgorithmName = "tiered_fallback"

// MatchOutcome is the formatted result of one pipeline run
type MatchOutcome struct {
	Results     []*entities.MatchResult
	TotalFound  int
	TierCounts  map[string]int
	Algorithm   string
	Suggestions []string
}

// MatchService runs the provider matching pipeline: normalize the
// category, walk the locator tiers in priority order, filter by
// availability, score, merge and rank.
type MatchService struct {
	normalizer   *CategoryNormalizer
	locators     []CandidateLocator
	availability *AvailabilityService
	scorer       *ScoringService
	aggregator   *AggregationService
	cfg          *config.MatchingConfig
	metrics      *observability.Metrics
}

// NewMatchService creates the pipeline. Locators must be ordered by
// tier priority; the synthetic tier, when enabled, goes last.
func NewMatchService(
	normalizer *CategoryNormalizer,
	locators []CandidateLocator,
	availability *AvailabilityService,
	scorer *ScoringService,
	aggregator *AggregationService,
	cfg *config.MatchingConfig,
	metrics *observability.Metrics,
) *MatchService {
	return &MatchService{
		normalizer:   normalizer,
		locators:     locators,
		availability: availability,
		scorer:       scorer,
		aggregator:   aggregator,
		cfg:          cfg,
		metrics:      metrics,
	}
}

// Match executes the pipeline for one request
func (s *MatchService) Match(ctx context.Context, req *entities.MatchRequest) (*MatchOutcome, error) {
	started := time.Now()
	logger := observability.LoggerFromContext(ctx)

	// 1. Validate before any tier runs
	if missing := req.Validate(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing or invalid fields: " + strings.Join(missing, ", "))
	}

	applyRequestDefaults(req, s.cfg)

	window, err := req.Window()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid time: " + err.Error())
	}

	// 2. Resolve the category
	category := s.normalizer.Normalize(req.Category)
	logger.Info().
		Str("category", category.Canonical).
		Str("area", req.Area).
		Str("date", req.Date).
		Int("providers_needed", req.ProvidersNeeded).
		Bool("category_known", category.Known).
		Msg("matching providers")

	// 3. Walk the tiers, filtering availability per batch. Availability
	// verdicts are memoized per provider so a candidate surfacing in
	// several tiers costs one ledger round trip.
	surplus := req.ProvidersNeeded * s.cfg.SurplusMultiplier
	tierCounts := make(map[string]int, len(s.locators))
	pool := []ScoredCandidate{}
	conflictCounts := map[string]int{}
	excluded := map[string]bool{}

	for _, locator := range s.locators {
		tierName := locator.Tier().String()
		tierCounts[tierName] = 0

		if len(conflictCounts) >= surplus {
			continue
		}

		located, err := locator.Locate(ctx, category, req)
		if err != nil {
			return nil, apperrors.NewInternalError("locator tier "+tierName+" failed", err)
		}

		fresh := make([]*entities.MatchCandidate, 0, len(located))
		for _, candidate := range located {
			id := candidate.Provider.ID
			if excluded[id] {
				continue
			}
			if _, known := conflictCounts[id]; !known {
				fresh = append(fresh, candidate)
			}
		}

		survivors := s.availability.FilterAvailable(ctx, fresh, req.Date, window)
		passed := make(map[string]bool, len(survivors))
		for _, candidate := range survivors {
			conflictCounts[candidate.Provider.ID] = candidate.ConflictCount
			passed[candidate.Provider.ID] = true
		}
		for _, candidate := range fresh {
			if !passed[candidate.Provider.ID] {
				excluded[candidate.Provider.ID] = true
			}
		}

		// 4. Score every surviving sighting, preserving discovery order
		for _, candidate := range located {
			id := candidate.Provider.ID
			count, ok := conflictCounts[id]
			if !ok {
				continue
			}
			candidate.ConflictCount = count
			score, breakdown := s.scorer.Score(candidate, category, req)
			pool = append(pool, ScoredCandidate{
				Candidate: candidate,
				Score:     score,
				Breakdown: breakdown,
			})
			tierCounts[tierName]++
		}

		observability.RecordTierCandidates(ctx, s.metrics, tierName, tierCounts[tierName])
	}

	// 5. Merge, rank, truncate
	ranked := s.aggregator.MergeAndRank(pool)
	totalFound := len(ranked)

	limit := req.Limit
	if limit <= 0 {
		limit = req.ProvidersNeeded * s.cfg.SurplusMultiplier
		if limit < s.cfg.MinResultLimit {
			limit = s.cfg.MinResultLimit
		}
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	outcome := &MatchOutcome{
		Results:    ranked,
		TotalFound: totalFound,
		TierCounts: tierCounts,
		Algorithm:  AlgorithmName,
	}
	if totalFound == 0 {
		outcome.Suggestions = emptyResultSuggestions(req)
	}

	observability.RecordMatchMetric(ctx, s.metrics, category.Canonical, totalFound, time.Since(started))
	logger.Info().
		Int("total_found", totalFound).
		Int("returned", len(ranked)).
		Dur("duration", time.Since(started)).
		Msg("matching complete")

	return outcome, nil
}

// applyRequestDefaults fills optional request fields in place
func applyRequestDefaults(req *entities.MatchRequest, cfg *config.MatchingConfig) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = cfg.DefaultDurationMinutes
	}
	if req.ProvidersNeeded < 1 {
		req.ProvidersNeeded = 1
	}
	if req.Urgency == "" {
		req.Urgency = entities.UrgencyNormal
	}
}

// emptyResultSuggestions builds the actionable hints attached to an
// empty (but successful) result
func emptyResultSuggestions(req *entities.MatchRequest) []string {
	suggestions := []string{
		"try a different date or time",
		"expand the search to nearby areas",
	}
	if req.Urgency == entities.UrgencyEmergency {
		suggestions = append(suggestions, "emergency slots are scarce; a normal-priority request may find more providers")
	}
	if req.Budget != nil {
		suggestions = append(suggestions, "widen the budget range")
	}
	suggestions = append(suggestions, "try a broader service category")
	return suggestions
}
