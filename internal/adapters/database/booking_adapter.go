package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByProviderAndDate retrieves a provider's bookings on a calendar date
func (a *BookingAdapter) ListByProviderAndDate(ctx context.Context, providerID, date string, statuses []entities.BookingStatus) ([]*entities.Booking, error) {
	ds := a.db.Select(
		"id", "provider_id", "listing_id", "client_id",
		"scheduled_date", "start_time", "end_time", "status",
		"created_at", "updated_at",
	).From("bookings").
		Where(goqu.Ex{
			"provider_id":    providerID,
			"scheduled_date": date,
		})

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		ds = ds.Where(goqu.C("status").In(values))
	}

	ds = ds.Order(goqu.I("start_time").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build booking query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query bookings", err)
	}
	defer rows.Close()

	bookings := []*entities.Booking{}
	for rows.Next() {
		booking := &entities.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.ProviderID,
			&booking.ListingID,
			&booking.ClientID,
			&booking.ScheduledDate,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating bookings", err)
	}

	return bookings, nil
}
