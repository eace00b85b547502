package typesense

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/retry"
)

const (
	// ListingsCollection is the Typesense collection holding active
	// service listings
	ListingsCollection = "service_listings"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("Typesense connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the service_listings collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ListingsCollection {
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: ListingsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "provider_id", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "price_type", Type: "string", Facet: pointer.True()},
			{Name: "duration_minutes", Type: "int32"},
			{Name: "is_active", Type: "bool"},
			{Name: "auto_generated", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err = c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("Created Typesense collection %q", ListingsCollection)
	return nil
}
