package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

// CacheInvalidationService listens for catalog events and drops stale
// cached views. Listing writes (notably the matcher's synthesized
// listings) flow through the event bus, so cached provider profiles and
// listing pages stay consistent without polling.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for listing events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelListingUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to listing updates: %w", err)
	}

	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ListingEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent drops the caches a single listing write can go stale:
// the owning provider's profile and any cached HTTP responses naming
// that provider. Match responses are never cached, so nothing else
// needs touching.
func (s *CacheInvalidationService) handleEvent(event *entities.ListingEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := observability.GetLogger()
	logger.Debug().
		Str("event_id", event.ID).
		Str("provider_id", event.ProviderID).
		Str("event_type", string(event.EventType)).
		Msg("processing cache invalidation")

	if err := s.cache.Delete(ctx, "provider:"+event.ProviderID); err != nil {
		logger.Warn().Err(err).Str("provider_id", event.ProviderID).Msg("failed to invalidate provider profile cache")
	}

	pattern := fmt.Sprintf("http:cache:*providers/%s*", event.ProviderID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		logger.Warn().Err(err).Str("provider_id", event.ProviderID).Msg("failed to invalidate provider response cache")
	}
}

// InvalidateProviderCache drops all cached state for one provider.
// Used by ops tooling after manual catalog edits.
func (s *CacheInvalidationService) InvalidateProviderCache(ctx context.Context, providerID string) error {
	if err := s.cache.Delete(ctx, "provider:"+providerID); err != nil {
		return fmt.Errorf("failed to invalidate provider cache: %w", err)
	}
	pattern := fmt.Sprintf("http:cache:*providers/%s*", providerID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate provider response cache: %w", err)
	}
	return nil
}
