package services

import (
	"context"
	"sync"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
)

// AvailabilityCheck is the outcome of probing one provider's calendar
type AvailabilityCheck struct {
	// Available is false when an occupying booking overlaps the
	// requested window
	Available bool

	// ConflictCount is the number of same-day occupying bookings,
	// overlapping or not; the scorer uses it as a busy-ness signal
	ConflictCount int
}

// AvailabilityService decides whether providers are free during a
// requested time window by checking their occupying bookings
type AvailabilityService struct {
	bookings    repositories.BookingRepository
	concurrency int
	timeout     time.Duration
}

// NewAvailabilityService creates an availability service
func NewAvailabilityService(bookings repositories.BookingRepository, cfg *config.MatchingConfig) *AvailabilityService {
	concurrency := cfg.AvailabilityConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &AvailabilityService{
		bookings:    bookings,
		concurrency: concurrency,
		timeout:     cfg.AvailabilityTimeout,
	}
}

// Check probes one provider's calendar for the given date and window.
// Bookings with malformed time data never cause a conflict; they are
// logged and treated as non-occupying (fail-open).
func (s *AvailabilityService) Check(ctx context.Context, providerID, date string, window entities.TimeWindow) (AvailabilityCheck, error) {
	bookings, err := s.bookings.ListByProviderAndDate(ctx, providerID, date, entities.OccupyingStatuses)
	if err != nil {
		return AvailabilityCheck{}, err
	}

	check := AvailabilityCheck{Available: true, ConflictCount: len(bookings)}
	logger := observability.LoggerFromContext(ctx)

	for _, booking := range bookings {
		existing, err := booking.Window()
		if err != nil {
			logger.Warn().Err(err).
				Str("booking_id", booking.ID).
				Str("provider_id", providerID).
				Msg("booking has malformed time data, treating as non-conflicting")
			continue
		}
		if window.Overlaps(existing) {
			check.Available = false
		}
	}

	return check, nil
}

// FilterAvailable removes candidates whose calendar conflicts with the
// requested window and annotates survivors with their conflict count.
// Checks fan out across a bounded worker pool with a per-candidate
// budget; a candidate whose ledger lookup fails or times out is dropped
// with a warning rather than failing the request.
func (s *AvailabilityService) FilterAvailable(ctx context.Context, candidates []*entities.MatchCandidate, date string, window entities.TimeWindow) []*entities.MatchCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	type outcome struct {
		check AvailabilityCheck
		err   error
	}

	outcomes := make([]outcome, len(candidates))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, providerID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			checkCtx := ctx
			if s.timeout > 0 {
				var cancel context.CancelFunc
				checkCtx, cancel = context.WithTimeout(ctx, s.timeout)
				defer cancel()
			}

			check, err := s.Check(checkCtx, providerID, date, window)
			outcomes[i] = outcome{check: check, err: err}
		}(i, candidate.Provider.ID)
	}
	wg.Wait()

	logger := observability.LoggerFromContext(ctx)
	available := make([]*entities.MatchCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		if outcomes[i].err != nil {
			logger.Warn().Err(outcomes[i].err).
				Str("provider_id", candidate.Provider.ID).
				Msg("availability check failed, dropping candidate")
			continue
		}
		if !outcomes[i].check.Available {
			continue
		}
		candidate.ConflictCount = outcomes[i].check.ConflictCount
		available = append(available, candidate)
	}

	return available
}
