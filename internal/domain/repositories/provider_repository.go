package repositories

import (
	"context"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// ProviderRepository defines the interface for provider directory reads
type ProviderRepository interface {
	// GetByID retrieves a provider by ID
	GetByID(ctx context.Context, id string) (*entities.Provider, error)

	// GetByIDs retrieves multiple providers by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Provider, error)

	// List retrieves providers with filters
	List(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)

	// ListApprovedBySkills retrieves active, approved providers whose
	// declared skills match any of the given keywords (substring,
	// case-insensitive)
	ListApprovedBySkills(ctx context.Context, keywords []string) ([]*entities.Provider, error)
}

// ProviderFilter defines filters for listing providers
type ProviderFilter struct {
	ApprovalState entities.ApprovalState
	Area          string
	IsActive      *bool
	Limit         int
	Offset        int
}
