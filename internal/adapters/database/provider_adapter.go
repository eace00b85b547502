package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

var providerColumns = []interface{}{
	"id", "display_name", "email", "phone_number", "bio",
	"skills", "service_areas", "rating", "review_count",
	"completed_jobs", "hourly_rate", "approval_state",
	"is_active", "created_at", "updated_at",
}

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider query", err)
	}

	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	return provider, nil
}

// GetByIDs retrieves multiple providers by their IDs
func (a *ProviderAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Provider, error) {
	if len(ids) == 0 {
		return []*entities.Provider{}, nil
	}

	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build providers query", err)
	}

	return a.queryProviders(ctx, query, args)
}

// List retrieves providers with filters
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	ds := a.db.Select(providerColumns...).From("providers")

	if filter.ApprovalState != "" {
		ds = ds.Where(goqu.Ex{"approval_state": string(filter.ApprovalState)})
	}
	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}
	if filter.Area != "" {
		// Empty service_areas means the provider covers every area.
		ds = ds.Where(goqu.Or(
			goqu.L("cardinality(service_areas) = 0"),
			goqu.L("? = ANY(service_areas)", filter.Area),
			goqu.L("? = ANY(service_areas)", entities.AreaCitywide),
		))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider list query", err)
	}

	return a.queryProviders(ctx, query, args)
}

// ListApprovedBySkills retrieves active, approved providers whose skills
// match any of the keywords (substring, case-insensitive)
func (a *ProviderAdapter) ListApprovedBySkills(ctx context.Context, keywords []string) ([]*entities.Provider, error) {
	if len(keywords) == 0 {
		return []*entities.Provider{}, nil
	}

	ds := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{
			"approval_state": string(entities.ApprovalStateApproved),
			"is_active":      true,
		})

	matchers := make([]goqu.Expression, 0, len(keywords))
	for _, kw := range keywords {
		pattern := "%" + kw + "%"
		matchers = append(matchers,
			goqu.L("EXISTS (SELECT 1 FROM unnest(skills) AS skill WHERE skill ILIKE ?)", pattern))
	}
	ds = ds.Where(goqu.Or(matchers...)).Order(goqu.I("created_at").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build skill search query", err)
	}

	return a.queryProviders(ctx, query, args)
}

func (a *ProviderAdapter) queryProviders(ctx context.Context, query string, args []interface{}) ([]*entities.Provider, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query providers", err)
	}
	defer rows.Close()

	providers := []*entities.Provider{}
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating providers", err)
	}

	return providers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	var rating, hourlyRate sql.NullFloat64
	var bio sql.NullString

	err := row.Scan(
		&provider.ID,
		&provider.DisplayName,
		&provider.Email,
		&provider.PhoneNumber,
		&bio,
		pq.Array(&provider.Skills),
		pq.Array(&provider.ServiceAreas),
		&rating,
		&provider.ReviewCount,
		&provider.CompletedJobs,
		&hourlyRate,
		&provider.ApprovalState,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	provider.Bio = bio.String
	if rating.Valid {
		provider.Rating = &rating.Float64
	}
	if hourlyRate.Valid {
		provider.HourlyRate = &hourlyRate.Float64
	}

	return provider, nil
}
