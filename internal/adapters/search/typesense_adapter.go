package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	tsclient "github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements full-text service listing search
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ListingSearchRepository
var _ repositories.ListingSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a listing document
func (a *TypesenseAdapter) Index(ctx context.Context, listing *entities.ServiceListing) error {
	document := map[string]interface{}{
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
		"created_at":       listing.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index listing: %w", err)
	}

	return nil
}

// Delete removes a listing from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete listing from index: %w", err)
	}
	return nil
}

// Search returns active listings matching the query's categories or
// keyword text against category and title
func (a *TypesenseAdapter) Search(ctx context.Context, query repositories.ListingQuery) ([]*entities.ServiceListing, error) {
	q := "*"
	if len(query.Keywords) > 0 {
		q = strings.Join(query.Keywords, " ")
	}

	filter := "is_active:=true"
	if len(query.Categories) > 0 {
		filter = fmt.Sprintf("%s && category:=[%s]", filter, strings.Join(query.Categories, ","))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(q),
		QueryBy:  pointer.String("category,title"),
		FilterBy: pointer.String(filter),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	listings := []*entities.ServiceListing{}
	if result.Hits == nil {
		return listings, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document
		listing := &entities.ServiceListing{
			ID:         stringField(doc, "id"),
			ProviderID: stringField(doc, "provider_id"),
			Category:   stringField(doc, "category"),
			Title:      stringField(doc, "title"),
			IsActive:   boolField(doc, "is_active"),
		}
		listing.Description = stringField(doc, "description")
		listing.PriceType = entities.PriceType(stringField(doc, "price_type"))
		if price, ok := doc["price"].(float64); ok {
			listing.Price = price
		}
		if minutes, ok := doc["duration_minutes"].(float64); ok {
			listing.DurationMinutes = int(minutes)
		}
		listing.AutoGenerated = boolField(doc, "auto_generated")
		if created, ok := doc["created_at"].(float64); ok {
			listing.CreatedAt = time.Unix(int64(created), 0)
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func boolField(doc map[string]interface{}, key string) bool {
	if v, ok := doc[key].(bool); ok {
		return v
	}
	return false
}
