package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

const (
	warmedProviderLimit      = 50
	warmedProviderTTLSeconds = 600 // keep in step with the cached provider adapter
)

// CacheWarmingService pre-populates the provider profile cache so the
// first match requests after a deploy don't all fall through to the
// database at once.
type CacheWarmingService struct {
	providerRepo repositories.ProviderRepository
	cache        providers.CacheProvider
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(providerRepo repositories.ProviderRepository, cache providers.CacheProvider) *CacheWarmingService {
	return &CacheWarmingService{
		providerRepo: providerRepo,
		cache:        cache,
	}
}

// WarmCache caches the approved, active providers the matcher is most
// likely to surface
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.GetLogger()

	active := true
	matchable, err := s.providerRepo.List(ctx, repositories.ProviderFilter{
		ApprovalState: entities.ApprovalStateApproved,
		IsActive:      &active,
		Limit:         warmedProviderLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch providers for warming: %w", err)
	}

	warmed := 0
	for _, provider := range matchable {
		data, err := json.Marshal(provider)
		if err != nil {
			logger.Warn().Err(err).Str("provider_id", provider.ID).Msg("failed to marshal provider for warming")
			continue
		}
		if err := s.cache.Set(ctx, "provider:"+provider.ID, data, warmedProviderTTLSeconds); err != nil {
			logger.Warn().Err(err).Str("provider_id", provider.ID).Msg("failed to warm provider cache")
			continue
		}
		warmed++
	}

	logger.Info().Int("warmed", warmed).Msg("provider cache warmed")
	return nil
}

// StartPeriodicWarming warms the cache now and then again on every tick
// until the context is cancelled
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.GetLogger()

	if err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("periodic cache warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("periodic cache warming started")
}
