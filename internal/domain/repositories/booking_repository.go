package repositories

import (
	"context"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking ledger reads
type BookingRepository interface {
	// ListByProviderAndDate retrieves a provider's bookings on a calendar
	// date (YYYY-MM-DD), optionally restricted to the given statuses
	ListByProviderAndDate(ctx context.Context, providerID, date string, statuses []entities.BookingStatus) ([]*entities.Booking, error)
}
