package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
)

func booking(id, providerID, date, start, end string, status entities.BookingStatus) *entities.Booking {
	return &entities.Booking{
		ID:            id,
		ProviderID:    providerID,
		ScheduledDate: date,
		StartTime:     start,
		EndTime:       end,
		Status:        status,
	}
}

func window(start, end int) entities.TimeWindow {
	return entities.TimeWindow{Start: start, End: end}
}

func TestAvailabilityService_Check(t *testing.T) {
	ctx := context.Background()
	date := "2026-09-15"

	t.Run("free calendar is available", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{}}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		check, err := svc.Check(ctx, "p1", date, window(600, 720))

		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Zero(t, check.ConflictCount)
	})

	t.Run("overlapping occupying booking conflicts", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{
			"p1": {booking("b1", "p1", date, "09:30", "11:00", entities.BookingStatusConfirmed)},
		}}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		// Request 10:00-12:00 overlaps 09:30-11:00
		check, err := svc.Check(ctx, "p1", date, window(600, 720))

		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, 1, check.ConflictCount)
	})

	t.Run("back to back bookings do not conflict", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{
			"p1": {booking("b1", "p1", date, "08:00", "10:00", entities.BookingStatusConfirmed)},
		}}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		// Half-open windows: an existing booking ending exactly at the
		// requested start is no conflict
		check, err := svc.Check(ctx, "p1", date, window(600, 720))

		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Equal(t, 1, check.ConflictCount, "same-day booking still counts as busy-ness")
	})

	t.Run("malformed booking times fail open", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{
			"p1": {
				booking("b1", "p1", date, "garbage", "11:00", entities.BookingStatusConfirmed),
				booking("b2", "p1", date, "13:00", "12:00", entities.BookingStatusPending),
			},
		}}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		check, err := svc.Check(ctx, "p1", date, window(600, 720))

		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Equal(t, 2, check.ConflictCount)
	})

	t.Run("ledger error propagates", func(t *testing.T) {
		repo := &fakeBookingRepo{err: errors.New("ledger down")}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		_, err := svc.Check(ctx, "p1", date, window(600, 720))
		assert.Error(t, err)
	})
}

func TestAvailabilityService_FilterAvailable(t *testing.T) {
	ctx := context.Background()
	date := "2026-09-15"

	candidates := func() []*entities.MatchCandidate {
		return []*entities.MatchCandidate{
			{Provider: approvedProvider("p1", "Free", []string{"plumbing"}, nil), Tier: entities.TierExactService},
			{Provider: approvedProvider("p2", "Booked", []string{"plumbing"}, nil), Tier: entities.TierSkillMatch},
			{Provider: approvedProvider("p3", "Busy", []string{"plumbing"}, nil), Tier: entities.TierSkillMatch},
		}
	}

	t.Run("drops conflicting candidates and annotates survivors", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string][]*entities.Booking{
			"p2": {booking("b1", "p2", date, "09:30", "11:00", entities.BookingStatusConfirmed)},
			"p3": {booking("b2", "p3", date, "14:00", "15:00", entities.BookingStatusPending)},
		}}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		available := svc.FilterAvailable(ctx, candidates(), date, window(600, 720))

		require.Len(t, available, 2)
		ids := []string{available[0].Provider.ID, available[1].Provider.ID}
		assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
		for _, c := range available {
			if c.Provider.ID == "p3" {
				assert.Equal(t, 1, c.ConflictCount)
			}
		}
	})

	t.Run("candidate with failing ledger lookup is dropped, not fatal", func(t *testing.T) {
		repo := &fakeBookingRepo{
			bookings: map[string][]*entities.Booking{},
			errFor:   map[string]error{"p2": errors.New("timeout")},
		}
		svc := services.NewAvailabilityService(repo, testMatchingConfig())

		available := svc.FilterAvailable(ctx, candidates(), date, window(600, 720))

		require.Len(t, available, 2)
		for _, c := range available {
			assert.NotEqual(t, "p2", c.Provider.ID)
		}
	})

	t.Run("empty input passes through", func(t *testing.T) {
		svc := services.NewAvailabilityService(&fakeBookingRepo{}, testMatchingConfig())
		assert.Empty(t, svc.FilterAvailable(ctx, nil, date, window(600, 720)))
	})
}
