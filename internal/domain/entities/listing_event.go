package entities

import (
	"time"

	"github.com/google/uuid"
)

// ListingEventType represents the type of catalog event
type ListingEventType string

const (
	// ListingEventTypeSynthesized is emitted when the matcher materializes
	// a placeholder listing for a skill-matched provider
	ListingEventTypeSynthesized ListingEventType = "listing_synthesized"

	// ListingEventTypeDeactivated is emitted when a listing is switched off
	ListingEventTypeDeactivated ListingEventType = "listing_deactivated"
)

// ListingEvent is the audit record published whenever the service
// catalog is written outside the ordinary admin flow
type ListingEvent struct {
	ID         string           `json:"id"`
	ListingID  string           `json:"listing_id"`
	ProviderID string           `json:"provider_id"`
	Category   string           `json:"category"`
	EventType  ListingEventType `json:"event_type"`
	Source     string           `json:"source"` // e.g. "match_pipeline", "admin"
	Timestamp  time.Time        `json:"timestamp"`
}

// NewListingEvent creates a new listing event
func NewListingEvent(listing *ServiceListing, eventType ListingEventType, source string) *ListingEvent {
	return &ListingEvent{
		ID:         uuid.New().String(),
		ListingID:  listing.ID,
		ProviderID: listing.ProviderID,
		Category:   listing.Category,
		EventType:  eventType,
		Source:     source,
		Timestamp:  time.Now(),
	}
}
