package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

func scoredCandidate(providerID string, tier entities.Tier, score int, listing *entities.ServiceListing) services.ScoredCandidate {
	return services.ScoredCandidate{
		Candidate: &entities.MatchCandidate{
			Provider: approvedProvider(providerID, providerID, nil, nil),
			Listing:  listing,
			Tier:     tier,
		},
		Score:     score,
		Breakdown: entities.ScoreBreakdown{"tier_base": float64(score)},
	}
}

func TestAggregationService_DeduplicatesByProvider(t *testing.T) {
	agg := services.NewAggregationService()

	results := agg.MergeAndRank([]services.ScoredCandidate{
		scoredCandidate("p1", entities.TierExactService, 90, nil),
		scoredCandidate("p2", entities.TierSkillMatch, 60, nil),
		scoredCandidate("p1", entities.TierSkillMatch, 55, nil),
	})

	require.Len(t, results, 2)
	seen := map[string]bool{}
	for _, r := range results {
		assert.False(t, seen[r.Provider.ID], "provider %s appears twice", r.Provider.ID)
		seen[r.Provider.ID] = true
	}
}

func TestAggregationService_HighestTierWinsInfo(t *testing.T) {
	agg := services.NewAggregationService()
	listing := &entities.ServiceListing{ID: "l1", ProviderID: "p1", Category: "plumbing", Title: "Plumbing Repair"}

	results := agg.MergeAndRank([]services.ScoredCandidate{
		scoredCandidate("p1", entities.TierExactService, 90, listing),
		scoredCandidate("p1", entities.TierSkillMatch, 55, nil),
	})

	require.Len(t, results, 1)
	assert.Equal(t, listing, results[0].Listing, "exact-service listing info kept")
	assert.Equal(t, []entities.Tier{entities.TierExactService, entities.TierSkillMatch}, results[0].TiersMatched)
}

func TestAggregationService_MaxScoreAcrossTiers(t *testing.T) {
	agg := services.NewAggregationService()

	results := agg.MergeAndRank([]services.ScoredCandidate{
		scoredCandidate("p1", entities.TierExactService, 70, nil),
		scoredCandidate("p1", entities.TierSkillMatch, 85, nil),
	})

	require.Len(t, results, 1)
	assert.Equal(t, 85, results[0].FinalScore)
}

func TestAggregationService_SortsDescending(t *testing.T) {
	agg := services.NewAggregationService()

	results := agg.MergeAndRank([]services.ScoredCandidate{
		scoredCandidate("low", entities.TierSkillMatch, 40, nil),
		scoredCandidate("high", entities.TierExactService, 95, nil),
		scoredCandidate("mid", entities.TierExactService, 70, nil),
	})

	require.Len(t, results, 3)
	assert.Equal(t, "high", results[0].Provider.ID)
	assert.Equal(t, "mid", results[1].Provider.ID)
	assert.Equal(t, "low", results[2].Provider.ID)
}

func TestAggregationService_TieBreakIsFirstSeen(t *testing.T) {
	agg := services.NewAggregationService()

	results := agg.MergeAndRank([]services.ScoredCandidate{
		scoredCandidate("first", entities.TierExactService, 80, nil),
		scoredCandidate("second", entities.TierExactService, 80, nil),
		scoredCandidate("third", entities.TierExactService, 80, nil),
	})

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Provider.ID)
	assert.Equal(t, "second", results[1].Provider.ID)
	assert.Equal(t, "third", results[2].Provider.ID)
}

func TestAggregationService_EmptyInput(t *testing.T) {
	agg := services.NewAggregationService()
	assert.Empty(t, agg.MergeAndRank(nil))
}
