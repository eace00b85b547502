package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/database"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

var listingColumns = []string{
	"id", "provider_id", "category", "title", "description",
	"price", "price_type", "duration_minutes", "is_active",
	"auto_generated", "created_at", "updated_at",
}

func listingRow(rows *sqlmock.Rows, id, providerID, category, title string, autoGenerated bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, providerID, category, title, "desc", 5000.0, "fixed", 120, true, autoGenerated, now, now)
}

func TestListingAdapter_Create(t *testing.T) {
	newListing := func() *entities.ServiceListing {
		return &entities.ServiceListing{
			ID:              "lst-1",
			ProviderID:      "prov-1",
			Category:        "plumbing",
			Title:           "Plumbing Services",
			Price:           5000,
			PriceType:       entities.PriceTypeQuote,
			DurationMinutes: 120,
			IsActive:        true,
			AutoGenerated:   true,
		}
	}

	t.Run("reports created when the insert lands", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		mock.ExpectExec(`INSERT INTO "service_listings" .+ ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := adapter.Create(context.Background(), newListing())

		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not created when a concurrent insert won", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		mock.ExpectExec(`INSERT INTO "service_listings"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := adapter.Create(context.Background(), newListing())

		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("stamps timestamps on the listing", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		mock.ExpectExec(`INSERT INTO "service_listings"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		listing := newListing()
		_, err := adapter.Create(context.Background(), listing)

		require.NoError(t, err)
		assert.False(t, listing.CreatedAt.IsZero())
		assert.False(t, listing.UpdatedAt.IsZero())
	})
}

func TestListingAdapter_GetByID(t *testing.T) {
	t.Run("returns the listing", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		rows := listingRow(sqlmock.NewRows(listingColumns), "lst-1", "prov-1", "cleaning", "Home Cleaning", false)
		mock.ExpectQuery(`SELECT .+ FROM "service_listings" WHERE \("id" = 'lst-1'\)`).
			WillReturnRows(rows)

		listing, err := adapter.GetByID(context.Background(), "lst-1")

		require.NoError(t, err)
		assert.Equal(t, "cleaning", listing.Category)
		assert.Equal(t, "Home Cleaning", listing.Title)
	})

	t.Run("returns not found for missing id", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		mock.ExpectQuery(`SELECT .+ FROM "service_listings"`).
			WillReturnError(sql.ErrNoRows)

		listing, err := adapter.GetByID(context.Background(), "nope")

		require.Error(t, err)
		assert.Nil(t, listing)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestListingAdapter_FindByProviderAndCategory(t *testing.T) {
	t.Run("returns the active listing", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		rows := listingRow(sqlmock.NewRows(listingColumns), "lst-1", "prov-1", "plumbing", "Plumbing Services", true)
		mock.ExpectQuery(`SELECT .+ FROM "service_listings" WHERE .+"provider_id" = 'prov-1'`).
			WillReturnRows(rows)

		listing, err := adapter.FindByProviderAndCategory(context.Background(), "prov-1", "plumbing")

		require.NoError(t, err)
		require.NotNil(t, listing)
		assert.True(t, listing.AutoGenerated)
	})

	t.Run("returns nil without error when none exists", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		mock.ExpectQuery(`SELECT .+ FROM "service_listings"`).
			WillReturnError(sql.ErrNoRows)

		listing, err := adapter.FindByProviderAndCategory(context.Background(), "prov-1", "plumbing")

		require.NoError(t, err)
		assert.Nil(t, listing)
	})
}

func TestListingAdapter_SearchActive(t *testing.T) {
	t.Run("matches categories and keyword substrings", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		rows := sqlmock.NewRows(listingColumns)
		rows = listingRow(rows, "lst-1", "prov-1", "cleaning", "Deep Cleaning", false)
		rows = listingRow(rows, "lst-2", "prov-2", "cleaning", "Office Cleaning", false)

		mock.ExpectQuery(`SELECT .+ FROM "service_listings" WHERE .+"category" IN \('cleaning'\).+ILIKE '%clean%'`).
			WillReturnRows(rows)

		listings, err := adapter.SearchActive(context.Background(), repositories.ListingQuery{
			Categories: []string{"cleaning"},
			Keywords:   []string{"clean"},
			Limit:      20,
		})

		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})

	t.Run("returns empty without querying when no criteria", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewListingAdapter(client)

		listings, err := adapter.SearchActive(context.Background(), repositories.ListingQuery{Limit: 20})

		require.NoError(t, err)
		assert.Empty(t, listings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
