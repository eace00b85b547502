package repositories

import (
	"context"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// ListingRepository defines the interface for service catalog operations.
// Create exists solely for the synthetic-listing write path; everything
// else is read-only.
type ListingRepository interface {
	// Create inserts a listing. Implementations must tolerate a
	// concurrent insert of the same (provider_id, category) pair for
	// auto-generated rows: a losing race is reported as success with
	// created=false.
	Create(ctx context.Context, listing *entities.ServiceListing) (created bool, err error)

	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id string) (*entities.ServiceListing, error)

	// FindByProviderAndCategory returns the provider's active listing in
	// the given canonical category, or nil when none exists
	FindByProviderAndCategory(ctx context.Context, providerID, category string) (*entities.ServiceListing, error)

	// ListByProvider retrieves all listings owned by a provider
	ListByProvider(ctx context.Context, providerID string) ([]*entities.ServiceListing, error)

	// SearchActive retrieves active listings whose category matches one
	// of the given categories, or whose category/title contains one of
	// the keywords (substring, case-insensitive)
	SearchActive(ctx context.Context, query ListingQuery) ([]*entities.ServiceListing, error)
}

// ListingQuery defines the catalog search used by the locator tiers
type ListingQuery struct {
	Categories []string
	Keywords   []string
	Limit      int
}

// ListingSearchRepository defines full-text listing search (Typesense).
// It accelerates the exact-service tier; the database path stays
// authoritative when the index is unavailable.
type ListingSearchRepository interface {
	// Search returns active listings matching the query text
	Search(ctx context.Context, query ListingQuery) ([]*entities.ServiceListing, error)

	// Index upserts a listing document
	Index(ctx context.Context, listing *entities.ServiceListing) error

	// Delete removes a listing from the index
	Delete(ctx context.Context, id string) error
}
