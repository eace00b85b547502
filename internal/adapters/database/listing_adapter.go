package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

var listingColumns = []interface{}{
	"id", "provider_id", "category", "title", "description",
	"price", "price_type", "duration_minutes", "is_active",
	"auto_generated", "created_at", "updated_at",
}

// ListingAdapter implements the ListingRepository interface
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a listing. Auto-generated rows carry a unique
// (provider_id, category) constraint; a conflicting insert is treated as
// a lost race, not an error.
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.ServiceListing) (bool, error) {
	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	record := goqu.Record{
		"id":               listing.ID,
		"provider_id":      listing.ProviderID,
		"category":         listing.Category,
		"title":            listing.Title,
		"description":      listing.Description,
		"price":            listing.Price,
		"price_type":       string(listing.PriceType),
		"duration_minutes": listing.DurationMinutes,
		"is_active":        listing.IsActive,
		"auto_generated":   listing.AutoGenerated,
		"created_at":       listing.CreatedAt,
		"updated_at":       listing.UpdatedAt,
	}

	query, args, err := a.db.Insert("service_listings").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build listing insert", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to create listing", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.ServiceListing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("service_listings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing query", err)
	}

	listing, err := scanListing(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}

	return listing, nil
}

// FindByProviderAndCategory returns the provider's active listing in the
// given category, or nil when none exists
func (a *ListingAdapter) FindByProviderAndCategory(ctx context.Context, providerID, category string) (*entities.ServiceListing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("service_listings").
		Where(goqu.Ex{
			"provider_id": providerID,
			"category":    category,
			"is_active":   true,
		}).
		Order(goqu.I("created_at").Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing lookup", err)
	}

	listing, err := scanListing(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find listing", err)
	}

	return listing, nil
}

// ListByProvider retrieves all listings owned by a provider
func (a *ListingAdapter) ListByProvider(ctx context.Context, providerID string) ([]*entities.ServiceListing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("service_listings").
		Where(goqu.Ex{"provider_id": providerID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider listings query", err)
	}

	return a.queryListings(ctx, query, args)
}

// SearchActive retrieves active listings matching the category set or
// keyword substrings on category/title
func (a *ListingAdapter) SearchActive(ctx context.Context, q repositories.ListingQuery) ([]*entities.ServiceListing, error) {
	ds := a.db.Select(listingColumns...).
		From("service_listings").
		Where(goqu.Ex{"is_active": true})

	matchers := make([]goqu.Expression, 0, len(q.Categories)+2*len(q.Keywords))
	if len(q.Categories) > 0 {
		matchers = append(matchers, goqu.C("category").In(q.Categories))
	}
	for _, kw := range q.Keywords {
		pattern := "%" + kw + "%"
		matchers = append(matchers,
			goqu.C("category").ILike(pattern),
			goqu.C("title").ILike(pattern),
		)
	}
	if len(matchers) == 0 {
		return []*entities.ServiceListing{}, nil
	}
	ds = ds.Where(goqu.Or(matchers...)).Order(goqu.I("created_at").Asc())

	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing search", err)
	}

	return a.queryListings(ctx, query, args)
}

func (a *ListingAdapter) queryListings(ctx context.Context, query string, args []interface{}) ([]*entities.ServiceListing, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query listings", err)
	}
	defer rows.Close()

	listings := []*entities.ServiceListing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating listings", err)
	}

	return listings, nil
}

func scanListing(row rowScanner) (*entities.ServiceListing, error) {
	listing := &entities.ServiceListing{}
	var description sql.NullString

	err := row.Scan(
		&listing.ID,
		&listing.ProviderID,
		&listing.Category,
		&listing.Title,
		&description,
		&listing.Price,
		&listing.PriceType,
		&listing.DurationMinutes,
		&listing.IsActive,
		&listing.AutoGenerated,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.Description = description.String
	return listing, nil
}
