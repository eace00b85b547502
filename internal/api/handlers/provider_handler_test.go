package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/handlers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

func newProviderHandler(providerRepo *fakeProviderRepo, listingRepo *fakeListingRepo, bookingRepo *fakeBookingRepo) *handlers.ProviderHandler {
	availability := services.NewAvailabilityService(bookingRepo, testMatchingConfig())
	return handlers.NewProviderHandler(providerRepo, listingRepo, availability)
}

func TestGetProvider(t *testing.T) {
	providerRepo := &fakeProviderRepo{providers: []*entities.Provider{
		approvedProvider("p1", "Mara Plumbing", []string{"plumbing"}, []string{"Kileleshwa"}),
	}}
	handler := newProviderHandler(providerRepo, &fakeListingRepo{}, &fakeBookingRepo{})

	t.Run("returns provider by ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/providers/p1", nil)
		req.SetPathValue("id", "p1")
		rec := httptest.NewRecorder()
		handler.GetProvider(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var provider entities.Provider
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &provider))
		assert.Equal(t, "Mara Plumbing", provider.DisplayName)
	})

	t.Run("unknown provider is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/providers/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		handler.GetProvider(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListProviders(t *testing.T) {
	providerRepo := &fakeProviderRepo{providers: []*entities.Provider{
		approvedProvider("p1", "Mara Plumbing", []string{"plumbing"}, []string{"Kileleshwa"}),
		approvedProvider("p2", "Volt Electrics", []string{"electrical"}, []string{"Karen"}),
	}}
	handler := newProviderHandler(providerRepo, &fakeListingRepo{}, &fakeBookingRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/providers?limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ListProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Providers []*entities.Provider `json:"providers"`
		Count     int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Count)
	assert.Len(t, payload.Providers, 2)
}

func TestGetProviderListings(t *testing.T) {
	listingRepo := &fakeListingRepo{listings: []*entities.ServiceListing{
		{ID: "l1", ProviderID: "p1", Category: "plumbing", Title: "Plumbing repairs", IsActive: true},
		{ID: "l2", ProviderID: "p2", Category: "electrical", Title: "Wiring", IsActive: true},
	}}
	handler := newProviderHandler(&fakeProviderRepo{}, listingRepo, &fakeBookingRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/providers/p1/listings", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	handler.GetProviderListings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Listings []*entities.ServiceListing `json:"listings"`
		Count    int                        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "l1", payload.Listings[0].ID)
}

func TestGetProviderAvailability(t *testing.T) {
	bookingRepo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{
		"p1": {{
			ID:            "b1",
			ProviderID:    "p1",
			ScheduledDate: "2026-09-15",
			StartTime:     "09:30",
			EndTime:       "11:00",
			Status:        entities.BookingStatusConfirmed,
		}},
	}}
	handler := newProviderHandler(&fakeProviderRepo{}, &fakeListingRepo{}, bookingRepo)

	probe := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.SetPathValue("id", "p1")
		rec := httptest.NewRecorder()
		handler.GetProviderAvailability(rec, req)
		return rec
	}

	t.Run("overlapping window is unavailable", func(t *testing.T) {
		rec := probe("/api/providers/p1/availability?date=2026-09-15&start=10:00&end=12:00")

		require.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, false, payload["available"])
		assert.Equal(t, float64(1), payload["conflictCount"])
	})

	t.Run("back-to-back window is available", func(t *testing.T) {
		rec := probe("/api/providers/p1/availability?date=2026-09-15&start=11:00&end=13:00")

		require.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, true, payload["available"])
		assert.Equal(t, float64(1), payload["conflictCount"])
	})

	t.Run("missing date is 400", func(t *testing.T) {
		rec := probe("/api/providers/p1/availability?start=10:00&end=12:00")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted window is 400", func(t *testing.T) {
		rec := probe("/api/providers/p1/availability?date=2026-09-15&start=12:00&end=10:00")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
