package handlers_test

import (
	"bytes"
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

func postSynthesis(t *testing.T, handler *handlers.SynthesisHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/synthetic-listings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.CreateSyntheticListing(rec, req)
	return rec
}

func TestCreateSyntheticListing(t *testing.T) {
	providerRepo := &fakeProviderRepo{providers: []*entities.Provider{
		approvedProvider("p1", "Mara Plumbing", []string{"plumbing"}, []string{"Kileleshwa"}),
	}}
	listingRepo := &fakeListingRepo{}
	synthesis := services.NewSynthesisService(listingRepo, nil, nil, nil)
	handler := handlers.NewSynthesisHandler(providerRepo, synthesis)

	t.Run("creates listing with defaults", func(t *testing.T) {
		rec := postSynthesis(t, handler, `{"providerId": "p1", "category": "plumbing"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var payload struct {
			Listing *entities.ServiceListing `json:"listing"`
			Created bool                     `json:"created"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.True(t, payload.Created)
		assert.Equal(t, "p1", payload.Listing.ProviderID)
		assert.Equal(t, "plumbing", payload.Listing.Category)
		assert.True(t, payload.Listing.AutoGenerated)
		assert.True(t, payload.Listing.IsActive)
	})

	t.Run("repeat call returns existing listing", func(t *testing.T) {
		rec := postSynthesis(t, handler, `{"providerId": "p1", "category": "plumbing"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var payload struct {
			Listing *entities.ServiceListing `json:"listing"`
			Created bool                     `json:"created"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.False(t, payload.Created)
		assert.Equal(t, 1, listingRepo.creates)
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		rec := postSynthesis(t, handler, `{"providerId": "p1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown provider is 404", func(t *testing.T) {
		rec := postSynthesis(t, handler, `{"providerId": "ghost", "category": "plumbing"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
