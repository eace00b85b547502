package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// MatchHandler exposes the provider matching pipeline over HTTP
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// matchRequestBody is the wire shape of a match call
type matchRequestBody struct {
	Category string `json:"category"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration,omitempty"`
	Location struct {
		Area        string             `json:"area"`
		Coordinates *entities.Location `json:"coordinates,omitempty"`
	} `json:"location"`
	ProvidersNeeded int              `json:"providersNeeded,omitempty"`
	Urgency         entities.Urgency `json:"urgency,omitempty"`
	Budget          *entities.Budget `json:"budget,omitempty"`
	Limit           int              `json:"limit,omitempty"`
}

// matchedProvider is one ranked entry in the response
type matchedProvider struct {
	Provider       providerSummary          `json:"provider"`
	Listing        *listingSummary          `json:"listing,omitempty"`
	FinalScore     int                      `json:"finalScore"`
	ScoreBreakdown entities.ScoreBreakdown  `json:"scoreBreakdown"`
	TiersMatched   []string                 `json:"tiersMatched"`
}

type providerSummary struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Skills        []string `json:"skills,omitempty"`
	ServiceAreas  []string `json:"serviceAreas,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	CompletedJobs int      `json:"completedJobs"`
	HourlyRate    *float64 `json:"hourlyRate,omitempty"`
}

type listingSummary struct {
	ID              string  `json:"id"`
	Category        string  `json:"category"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	PriceType       string  `json:"priceType"`
	DurationMinutes int     `json:"durationMinutes"`
	AutoGenerated   bool    `json:"autoGenerated"`
}

// MatchProviders handles POST /api/match/providers
func (h *MatchHandler) MatchProviders(w http.ResponseWriter, r *http.Request) {
	var body matchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &entities.MatchRequest{
		Category:        body.Category,
		Area:            body.Location.Area,
		Coordinates:     body.Location.Coordinates,
		Date:            body.Date,
		StartTime:       body.Time,
		DurationMinutes: body.Duration,
		Urgency:         body.Urgency,
		Budget:          body.Budget,
		ProvidersNeeded: body.ProvidersNeeded,
		Limit:           body.Limit,
	}

	outcome, err := h.matchService.Match(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	matching := map[string]interface{}{
		"algorithm":  outcome.Algorithm,
		"tierCounts": outcome.TierCounts,
	}
	if len(outcome.Suggestions) > 0 {
		matching["suggestions"] = outcome.Suggestions
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"providers":  formatResults(outcome.Results),
			"totalFound": outcome.TotalFound,
			"searchCriteria": map[string]interface{}{
				"category":        req.Category,
				"area":            req.Area,
				"date":            req.Date,
				"time":            req.StartTime,
				"duration":        req.DurationMinutes,
				"urgency":         req.Urgency,
				"providersNeeded": req.ProvidersNeeded,
			},
			"matching": matching,
		},
	})
}

func formatResults(results []*entities.MatchResult) []matchedProvider {
	formatted := make([]matchedProvider, 0, len(results))
	for _, result := range results {
		view := entities.NewProviderView(result.Provider)

		entry := matchedProvider{
			Provider: providerSummary{
				ID:            result.Provider.ID,
				DisplayName:   result.Provider.DisplayName,
				Skills:        result.Provider.Skills,
				ServiceAreas:  result.Provider.ServiceAreas,
				Rating:        view.Rating(),
				ReviewCount:   view.ReviewCount(),
				CompletedJobs: view.CompletedJobs(),
				HourlyRate:    result.Provider.HourlyRate,
			},
			FinalScore:     result.FinalScore,
			ScoreBreakdown: result.Breakdown,
			TiersMatched:   result.TierNames(),
		}

		if result.Listing != nil {
			entry.Listing = &listingSummary{
				ID:              result.Listing.ID,
				Category:        result.Listing.Category,
				Title:           result.Listing.Title,
				Price:           result.Listing.Price,
				PriceType:       string(result.Listing.PriceType),
				DurationMinutes: result.Listing.DurationMinutes,
				AutoGenerated:   result.Listing.AutoGenerated,
			}
		}

		formatted = append(formatted, entry)
	}
	return formatted
}
