package services

import (
	"context"
	"strings"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

// tierQueryLimit caps how many listings a single tier pulls from the
// catalog before the provider join
const tierQueryLimit = 100

// CandidateLocator is the common contract of the locator tiers. Every
// tier is read-only except the synthetic tier, which materializes
// listings through the synthesis service.
type CandidateLocator interface {
	// Tier identifies the strategy's priority
	Tier() entities.Tier

	// Locate finds candidates for the request. Implementations must not
	// mutate the request or the normalized category.
	Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error)
}

// ExactServiceLocator finds providers with an active listing whose
// category equals the canonical category or whose category/title
// contains one of its keywords
type ExactServiceLocator struct {
	listings   repositories.ListingRepository
	searchRepo repositories.ListingSearchRepository
	providers  repositories.ProviderRepository
}

// NewExactServiceLocator creates the exact-service tier. searchRepo is
// optional; when present it accelerates the catalog query and the
// database remains the fallback.
func NewExactServiceLocator(
	listings repositories.ListingRepository,
	searchRepo repositories.ListingSearchRepository,
	providers repositories.ProviderRepository,
) *ExactServiceLocator {
	return &ExactServiceLocator{
		listings:   listings,
		searchRepo: searchRepo,
		providers:  providers,
	}
}

// Tier returns the tier priority
func (l *ExactServiceLocator) Tier() entities.Tier {
	return entities.TierExactService
}

// Locate finds exact-service candidates
func (l *ExactServiceLocator) Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error) {
	query := repositories.ListingQuery{
		Categories: []string{category.Canonical},
		Keywords:   category.Keywords,
		Limit:      tierQueryLimit,
	}

	listings, err := l.queryCatalog(ctx, query)
	if err != nil {
		return nil, err
	}

	return joinListingsToProviders(ctx, l.providers, listings, l.Tier(), category.Canonical, req.Area, true)
}

func (l *ExactServiceLocator) queryCatalog(ctx context.Context, query repositories.ListingQuery) ([]*entities.ServiceListing, error) {
	if l.searchRepo != nil {
		listings, err := l.searchRepo.Search(ctx, query)
		if err == nil {
			return listings, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Msg("listing search index unavailable, falling back to database")
	}
	return l.listings.SearchActive(ctx, query)
}

// SkillMatchLocator finds approved providers whose declared skills
// match the keyword set, ignoring the catalog entirely
type SkillMatchLocator struct {
	providers repositories.ProviderRepository
}

// NewSkillMatchLocator creates the skill-match tier
func NewSkillMatchLocator(providers repositories.ProviderRepository) *SkillMatchLocator {
	return &SkillMatchLocator{providers: providers}
}

// Tier returns the tier priority
func (l *SkillMatchLocator) Tier() entities.Tier {
	return entities.TierSkillMatch
}

// Locate finds skill-matched candidates within the requested area
func (l *SkillMatchLocator) Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error) {
	matched, err := l.providers.ListApprovedBySkills(ctx, category.Keywords)
	if err != nil {
		return nil, err
	}
	return providerCandidates(matched, l.Tier(), req.Area, true), nil
}

// FuzzyCategoryLocator widens the catalog query to the broader synonym
// set (maintenance, repair, installation and friends)
type FuzzyCategoryLocator struct {
	listings  repositories.ListingRepository
	providers repositories.ProviderRepository
}

// NewFuzzyCategoryLocator creates the fuzzy-category tier
func NewFuzzyCategoryLocator(
	listings repositories.ListingRepository,
	providers repositories.ProviderRepository,
) *FuzzyCategoryLocator {
	return &FuzzyCategoryLocator{
		listings:  listings,
		providers: providers,
	}
}

// Tier returns the tier priority
func (l *FuzzyCategoryLocator) Tier() entities.Tier {
	return entities.TierFuzzyCategory
}

// Locate finds candidates whose listings match the fuzzy synonyms
func (l *FuzzyCategoryLocator) Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error) {
	listings, err := l.listings.SearchActive(ctx, repositories.ListingQuery{
		Keywords: category.FuzzyKeywords,
		Limit:    tierQueryLimit,
	})
	if err != nil {
		return nil, err
	}

	return joinListingsToProviders(ctx, l.providers, listings, l.Tier(), category.Canonical, req.Area, true)
}

// LocationExpandedLocator keeps the skill filter but drops the
// service-area constraint entirely
type LocationExpandedLocator struct {
	providers repositories.ProviderRepository
}

// NewLocationExpandedLocator creates the location-expanded tier
func NewLocationExpandedLocator(providers repositories.ProviderRepository) *LocationExpandedLocator {
	return &LocationExpandedLocator{providers: providers}
}

// Tier returns the tier priority
func (l *LocationExpandedLocator) Tier() entities.Tier {
	return entities.TierLocationExpanded
}

// Locate finds skill-matched candidates regardless of area
func (l *LocationExpandedLocator) Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error) {
	matched, err := l.providers.ListApprovedBySkills(ctx, category.Keywords)
	if err != nil {
		return nil, err
	}
	return providerCandidates(matched, l.Tier(), req.Area, false), nil
}

// SyntheticLocator is the last-resort tier: for every skill-matched
// provider with no active listing in the category it materializes a
// placeholder listing through the synthesis service. A failed
// materialization drops that provider only, never the whole tier.
type SyntheticLocator struct {
	providers repositories.ProviderRepository
	listings  repositories.ListingRepository
	synthesis *SynthesisService
}

// NewSyntheticLocator creates the dynamic-synthesis tier
func NewSyntheticLocator(
	providers repositories.ProviderRepository,
	listings repositories.ListingRepository,
	synthesis *SynthesisService,
) *SyntheticLocator {
	return &SyntheticLocator{
		providers: providers,
		listings:  listings,
		synthesis: synthesis,
	}
}

// Tier returns the tier priority
func (l *SyntheticLocator) Tier() entities.Tier {
	return entities.TierSynthetic
}

// Locate materializes listings for skill-matched, listing-less providers
func (l *SyntheticLocator) Locate(ctx context.Context, category NormalizedCategory, req *entities.MatchRequest) ([]*entities.MatchCandidate, error) {
	matched, err := l.providers.ListApprovedBySkills(ctx, category.Keywords)
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	candidates := []*entities.MatchCandidate{}
	for _, provider := range matched {
		view := entities.NewProviderView(provider)
		if !view.ServesArea(req.Area) {
			continue
		}

		// Providers already listed in this category belong to the
		// catalog tiers; only the unlisted ones are materialized.
		existing, err := l.listings.FindByProviderAndCategory(ctx, provider.ID, category.Canonical)
		if err != nil {
			logger.Warn().Err(err).
				Str("provider_id", provider.ID).
				Msg("failed to check existing listing, skipping candidate")
			continue
		}
		if existing != nil {
			continue
		}

		listing, _, err := l.synthesis.Materialize(ctx, provider, category.Canonical, "match_pipeline")
		if err != nil {
			logger.Warn().Err(err).
				Str("provider_id", provider.ID).
				Str("category", category.Canonical).
				Msg("failed to materialize synthetic listing, skipping candidate")
			continue
		}

		candidates = append(candidates, &entities.MatchCandidate{
			Provider: provider,
			Listing:  listing,
			Tier:     l.Tier(),
		})
	}

	return candidates, nil
}

// joinListingsToProviders resolves listing owners, applies eligibility,
// and attaches each eligible provider's best listing. The best listing
// is the first whose category equals its owner's matched category set,
// otherwise the first seen.
func joinListingsToProviders(
	ctx context.Context,
	providerRepo repositories.ProviderRepository,
	listings []*entities.ServiceListing,
	tier entities.Tier,
	canonical, area string,
	enforceArea bool,
) ([]*entities.MatchCandidate, error) {
	if len(listings) == 0 {
		return []*entities.MatchCandidate{}, nil
	}

	byProvider := make(map[string][]*entities.ServiceListing)
	order := []string{}
	for _, listing := range listings {
		if !listing.IsActive {
			continue
		}
		if _, seen := byProvider[listing.ProviderID]; !seen {
			order = append(order, listing.ProviderID)
		}
		byProvider[listing.ProviderID] = append(byProvider[listing.ProviderID], listing)
	}

	providersByID := make(map[string]*entities.Provider)
	fetched, err := providerRepo.GetByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	for _, provider := range fetched {
		providersByID[provider.ID] = provider
	}

	candidates := []*entities.MatchCandidate{}
	for _, providerID := range order {
		provider, ok := providersByID[providerID]
		if !ok {
			continue
		}
		if provider.ApprovalState != entities.ApprovalStateApproved || !provider.IsActive {
			continue
		}
		view := entities.NewProviderView(provider)
		if enforceArea && !view.ServesArea(area) {
			continue
		}

		candidates = append(candidates, &entities.MatchCandidate{
			Provider: provider,
			Listing:  bestListing(byProvider[providerID], canonical),
			Tier:     tier,
		})
	}

	return candidates, nil
}

// bestListing prefers a listing in the canonical category; otherwise
// the first one seen wins
func bestListing(listings []*entities.ServiceListing, canonical string) *entities.ServiceListing {
	if len(listings) == 0 {
		return nil
	}
	for _, l := range listings {
		if strings.EqualFold(l.Category, canonical) {
			return l
		}
	}
	return listings[0]
}

// providerCandidates filters a skill-matched provider list down to
// eligible candidates with no listing attached
func providerCandidates(matched []*entities.Provider, tier entities.Tier, area string, enforceArea bool) []*entities.MatchCandidate {
	candidates := []*entities.MatchCandidate{}
	for _, provider := range matched {
		if provider.ApprovalState != entities.ApprovalStateApproved || !provider.IsActive {
			continue
		}
		view := entities.NewProviderView(provider)
		if enforceArea && !view.ServesArea(area) {
			continue
		}
		candidates = append(candidates, &entities.MatchCandidate{
			Provider: provider,
			Tier:     tier,
		})
	}
	return candidates
}
