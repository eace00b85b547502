package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
)

// SynthesisHandler exposes the explicit listing materialization write path
type SynthesisHandler struct {
	providerRepo repositories.ProviderRepository
	synthesis    *services.SynthesisService
}

// NewSynthesisHandler creates a new synthesis handler
func NewSynthesisHandler(providerRepo repositories.ProviderRepository, synthesis *services.SynthesisService) *SynthesisHandler {
	return &SynthesisHandler{
		providerRepo: providerRepo,
		synthesis:    synthesis,
	}
}

type synthesisRequestBody struct {
	ProviderID string `json:"providerId"`
	Category   string `json:"category"`
}

// CreateSyntheticListing handles POST /api/admin/synthetic-listings.
// The operation is idempotent: a listing that already exists for the
// (provider, category) pair is returned with 200 instead of 201.
func (h *SynthesisHandler) CreateSyntheticListing(w http.ResponseWriter, r *http.Request) {
	var body synthesisRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ProviderID == "" || body.Category == "" {
		respondWithError(w, http.StatusBadRequest, "providerId and category are required")
		return
	}

	provider, err := h.providerRepo.GetByID(r.Context(), body.ProviderID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	listing, created, err := h.synthesis.Materialize(r.Context(), provider, body.Category, "admin")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, map[string]interface{}{
		"listing": listing,
		"created": created,
	})
}
