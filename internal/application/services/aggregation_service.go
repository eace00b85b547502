package services

import (
	"sort"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// ScoredCandidate pairs a candidate with its computed score
type ScoredCandidate struct {
	Candidate *entities.MatchCandidate
	Score     int
	Breakdown entities.ScoreBreakdown
}

// AggregationService merges scored candidates across tiers into the
// final ranked result list
type AggregationService struct{}

// NewAggregationService creates an aggregation service
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// MergeAndRank deduplicates candidates by provider identity and ranks
// the survivors. Candidates must arrive in discovery order (tiers in
// priority order). For a provider found by several tiers the entry
// keeps the listing and tier of the highest-priority tier, the maximum
// score observed, and records every tier that matched. The sort is
// stable and descending by score, so ties keep first-seen order.
func (s *AggregationService) MergeAndRank(scored []ScoredCandidate) []*entities.MatchResult {
	byProvider := make(map[string]*entities.MatchResult)
	order := []string{}

	for _, sc := range scored {
		providerID := sc.Candidate.Provider.ID

		existing, seen := byProvider[providerID]
		if !seen {
			byProvider[providerID] = &entities.MatchResult{
				Provider:     sc.Candidate.Provider,
				Listing:      sc.Candidate.Listing,
				FinalScore:   sc.Score,
				Breakdown:    sc.Breakdown,
				TiersMatched: []entities.Tier{sc.Candidate.Tier},
			}
			order = append(order, providerID)
			continue
		}

		// Tiers arrive in priority order, so the first occurrence
		// already carries the highest-priority listing and tier info;
		// later sightings contribute their tier tag and, possibly, a
		// higher score.
		existing.TiersMatched = append(existing.TiersMatched, sc.Candidate.Tier)

		if sc.Score > existing.FinalScore {
			existing.FinalScore = sc.Score
			existing.Breakdown = sc.Breakdown
		}
	}

	results := make([]*entities.MatchResult, 0, len(order))
	for _, providerID := range order {
		results = append(results, byProvider[providerID])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	return results
}
