package handlers

import (
	"net/http"
	"strconv"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
)

// ProviderHandler handles provider directory HTTP requests
type ProviderHandler struct {
	providerRepo repositories.ProviderRepository
	listingRepo  repositories.ListingRepository
	availability *services.AvailabilityService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	providerRepo repositories.ProviderRepository,
	listingRepo repositories.ListingRepository,
	availability *services.AvailabilityService,
) *ProviderHandler {
	return &ProviderHandler{
		providerRepo: providerRepo,
		listingRepo:  listingRepo,
		availability: availability,
	}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	filter := repositories.ProviderFilter{
		Area:  r.URL.Query().Get("area"),
		Limit: limit,
	}
	if state := r.URL.Query().Get("approvalState"); state != "" {
		filter.ApprovalState = entities.ApprovalState(state)
	}

	providers, err := h.providerRepo.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.providerRepo.GetByID(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// GetProviderListings handles GET /api/providers/{id}/listings
func (h *ProviderHandler) GetProviderListings(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	listings, err := h.listingRepo.ListByProvider(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetProviderAvailability handles
// GET /api/providers/{id}/availability?date=YYYY-MM-DD&start=HH:MM&end=HH:MM
func (h *ProviderHandler) GetProviderAvailability(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date is required")
		return
	}

	start, err := entities.ParseClockTime(query.Get("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start must be HH:MM")
		return
	}
	end, err := entities.ParseClockTime(query.Get("end"))
	if err != nil || end <= start {
		respondWithError(w, http.StatusBadRequest, "end must be HH:MM after start")
		return
	}

	check, err := h.availability.Check(r.Context(), providerID, date, entities.TimeWindow{Start: start, End: end})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providerId":    providerID,
		"date":          date,
		"available":     check.Available,
		"conflictCount": check.ConflictCount,
	})
}
