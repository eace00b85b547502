package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

const (
	providerCacheTTLSeconds = 600 // 10 minutes; profile data changes rarely
	providerCachePrefix     = "provider:"
)

// CachedProviderAdapter decorates a ProviderRepository with Redis
// caching for single-profile reads. List and skill-search queries go
// straight to the database: their result sets are request-specific and
// caching them would mostly produce misses.
type CachedProviderAdapter struct {
	inner repositories.ProviderRepository
	cache providers.CacheProvider
}

// NewCachedProviderAdapter creates a caching decorator over a provider repository
func NewCachedProviderAdapter(inner repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		inner: inner,
		cache: cache,
	}
}

// GetByID retrieves a provider, preferring the cache
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	key := providerCachePrefix + id

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			return &provider, nil
		}
		// Corrupt entry; drop it and fall through to the database.
		_ = a.cache.Delete(ctx, key)
	}

	provider, err := a.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(provider); err == nil {
		if err := a.cache.Set(ctx, key, data, providerCacheTTLSeconds); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).Str("provider_id", id).
				Msg("failed to cache provider profile")
		}
	}

	return provider, nil
}

// GetByIDs retrieves multiple providers, serving cached profiles where
// possible and batching the remainder into one database query
func (a *CachedProviderAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Provider, error) {
	result := make([]*entities.Provider, 0, len(ids))
	missing := make([]string, 0, len(ids))

	for _, id := range ids {
		cached, err := a.cache.Get(ctx, providerCachePrefix+id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err != nil {
			missing = append(missing, id)
			continue
		}
		result = append(result, &provider)
	}

	if len(missing) > 0 {
		fetched, err := a.inner.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, provider := range fetched {
			if data, err := json.Marshal(provider); err == nil {
				_ = a.cache.Set(ctx, providerCachePrefix+provider.ID, data, providerCacheTTLSeconds)
			}
		}
		result = append(result, fetched...)
	}

	return result, nil
}

// List passes through to the database
func (a *CachedProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	return a.inner.List(ctx, filter)
}

// ListApprovedBySkills passes through to the database
func (a *CachedProviderAdapter) ListApprovedBySkills(ctx context.Context, keywords []string) ([]*entities.Provider, error) {
	return a.inner.ListApprovedBySkills(ctx, keywords)
}

// InvalidateProvider drops a provider's cached profile
func (a *CachedProviderAdapter) InvalidateProvider(ctx context.Context, id string) error {
	if err := a.cache.Delete(ctx, providerCachePrefix+id); err != nil {
		return fmt.Errorf("failed to invalidate provider cache: %w", err)
	}
	return nil
}
