package providers

import (
	"context"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// catalog audit events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ListingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for the catalog audit stream
const (
	// EventChannelListingUpdates is the channel for all listing writes
	EventChannelListingUpdates = "listing:updates"

	// EventChannelProviderPrefix is the prefix for provider-specific channels
	EventChannelProviderPrefix = "listing:provider:"
)

// GetProviderChannel returns the channel name for one provider's catalog
func GetProviderChannel(providerID string) string {
	return EventChannelProviderPrefix + providerID
}
