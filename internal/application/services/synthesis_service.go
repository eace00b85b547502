package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

// SyntheticDefaults holds the price and duration a materialized listing
// starts out with for one category
type SyntheticDefaults struct {
	Price           float64
	PriceType       entities.PriceType
	DurationMinutes int
}

// defaultSyntheticTable is keyed by canonical category; categories not
// listed fall back to fallbackSyntheticDefaults
var defaultSyntheticTable = map[string]SyntheticDefaults{
	"cleaning":         {Price: 2500, PriceType: entities.PriceTypeFixed, DurationMinutes: 180},
	"plumbing":         {Price: 1500, PriceType: entities.PriceTypeQuote, DurationMinutes: 120},
	"electrical":       {Price: 1500, PriceType: entities.PriceTypeQuote, DurationMinutes: 120},
	"moving":           {Price: 8000, PriceType: entities.PriceTypeQuote, DurationMinutes: 240},
	"painting":         {Price: 5000, PriceType: entities.PriceTypeQuote, DurationMinutes: 480},
	"carpentry":        {Price: 2000, PriceType: entities.PriceTypeQuote, DurationMinutes: 180},
	"gardening":        {Price: 1800, PriceType: entities.PriceTypeFixed, DurationMinutes: 180},
	"appliance_repair": {Price: 1200, PriceType: entities.PriceTypeQuote, DurationMinutes: 90},
	"pest_control":     {Price: 3500, PriceType: entities.PriceTypeFixed, DurationMinutes: 120},
}

var fallbackSyntheticDefaults = SyntheticDefaults{
	Price:           2000,
	PriceType:       entities.PriceTypeQuote,
	DurationMinutes: 120,
}

// SynthesisService materializes placeholder listings for skill-matched
// providers that have nothing listed in a category. It is the only
// write path in the matching engine; every write is idempotent per
// (provider, category) and published as an audit event.
type SynthesisService struct {
	listings   repositories.ListingRepository
	searchRepo repositories.ListingSearchRepository
	eventBus   providers.EventBus
	metrics    *observability.Metrics
	defaults   map[string]SyntheticDefaults
}

// NewSynthesisService creates a new synthesis service. searchRepo,
// eventBus and metrics are optional.
func NewSynthesisService(
	listings repositories.ListingRepository,
	searchRepo repositories.ListingSearchRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *SynthesisService {
	return &SynthesisService{
		listings:   listings,
		searchRepo: searchRepo,
		eventBus:   eventBus,
		metrics:    metrics,
		defaults:   defaultSyntheticTable,
	}
}

// Materialize ensures the provider has an active listing in the given
// canonical category, creating a synthetic one when necessary. It
// returns the listing to use and whether this call created it. Losing a
// creation race to a concurrent request is not an error; the winner's
// listing is returned.
func (s *SynthesisService) Materialize(ctx context.Context, provider *entities.Provider, category, source string) (*entities.ServiceListing, bool, error) {
	// 1. Idempotence check: reuse an existing listing when one exists
	existing, err := s.listings.FindByProviderAndCategory(ctx, provider.ID, category)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	defaults, ok := s.defaults[category]
	if !ok {
		defaults = fallbackSyntheticDefaults
	}

	listing := &entities.ServiceListing{
		ID:              uuid.New().String(),
		ProviderID:      provider.ID,
		Category:        category,
		Title:           syntheticTitle(category),
		Description:     fmt.Sprintf("Professional %s services by %s", categoryLabel(category), provider.DisplayName),
		Price:           defaults.Price,
		PriceType:       defaults.PriceType,
		DurationMinutes: defaults.DurationMinutes,
		IsActive:        true,
		AutoGenerated:   true,
	}

	// 2. Conflict-tolerant insert: a concurrent request may have created
	// the same (provider, category) listing between the check and here
	created, err := s.listings.Create(ctx, listing)
	if err != nil {
		return nil, false, err
	}
	if !created {
		winner, err := s.listings.FindByProviderAndCategory(ctx, provider.ID, category)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, fmt.Errorf("listing for provider %s category %s vanished after conflicting insert", provider.ID, category)
		}
		return winner, false, nil
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("provider_id", provider.ID).
		Str("category", category).
		Str("listing_id", listing.ID).
		Str("source", source).
		Msg("synthesized service listing")

	observability.RecordSynthesizedListing(ctx, s.metrics, category)

	// 3. Audit event and search index are best-effort
	if s.eventBus != nil {
		event := entities.NewListingEvent(listing, entities.ListingEventTypeSynthesized, source)
		if err := s.eventBus.Publish(ctx, providers.EventChannelListingUpdates, event); err != nil {
			logger.Warn().Err(err).Str("listing_id", listing.ID).Msg("failed to publish listing event")
		}
		// Fan out on the provider's own channel as well so narrowly
		// scoped subscribers don't have to filter the global stream.
		if err := s.eventBus.Publish(ctx, providers.GetProviderChannel(provider.ID), event); err != nil {
			logger.Warn().Err(err).Str("provider_id", provider.ID).Msg("failed to publish provider event")
		}
	}
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, listing); err != nil {
			logger.Warn().Err(err).Str("listing_id", listing.ID).Msg("failed to index synthesized listing")
		}
	}

	return listing, true, nil
}

// syntheticTitle builds the display title of a materialized listing
func syntheticTitle(category string) string {
	return categoryLabel(category) + " Services"
}

// categoryLabel turns a canonical key like "appliance_repair" into
// "Appliance Repair"
func categoryLabel(category string) string {
	words := strings.FieldsFunc(category, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
