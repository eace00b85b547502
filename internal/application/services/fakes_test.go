package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
)

// fakeProviderRepo is an in-memory provider directory
type fakeProviderRepo struct {
	providers []*entities.Provider
	err       error
}

func (f *fakeProviderRepo) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("provider not found")
}

func (f *fakeProviderRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := []*entities.Provider{}
	for _, id := range ids {
		for _, p := range f.providers {
			if p.ID == id {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

func (f *fakeProviderRepo) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.providers, nil
}

func (f *fakeProviderRepo) ListApprovedBySkills(ctx context.Context, keywords []string) ([]*entities.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := []*entities.Provider{}
	for _, p := range f.providers {
		if p.ApprovalState != entities.ApprovalStateApproved || !p.IsActive {
			continue
		}
		for _, skill := range p.Skills {
			if skillMatchesAny(skill, keywords) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}

func skillMatchesAny(skill string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(strings.ToLower(skill), strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// fakeListingRepo is an in-memory service catalog with the same
// conflict-tolerance contract as the real adapter
type fakeListingRepo struct {
	mu        sync.Mutex
	listings  []*entities.ServiceListing
	createErr error
	queryErr  error
	creates   int
}

func (f *fakeListingRepo) Create(ctx context.Context, listing *entities.ServiceListing) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	if listing.AutoGenerated {
		for _, l := range f.listings {
			if l.ProviderID == listing.ProviderID && l.Category == listing.Category && l.AutoGenerated {
				return false, nil
			}
		}
	}
	f.listings = append(f.listings, listing)
	f.creates++
	return true, nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*entities.ServiceListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New("listing not found")
}

func (f *fakeListingRepo) FindByProviderAndCategory(ctx context.Context, providerID, category string) (*entities.ServiceListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	for _, l := range f.listings {
		if l.ProviderID == providerID && strings.EqualFold(l.Category, category) && l.IsActive {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeListingRepo) ListByProvider(ctx context.Context, providerID string) ([]*entities.ServiceListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*entities.ServiceListing{}
	for _, l := range f.listings {
		if l.ProviderID == providerID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeListingRepo) SearchActive(ctx context.Context, query repositories.ListingQuery) ([]*entities.ServiceListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	result := []*entities.ServiceListing{}
	for _, l := range f.listings {
		if !l.IsActive {
			continue
		}
		if listingMatchesQuery(l, query) {
			result = append(result, l)
		}
	}
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func listingMatchesQuery(l *entities.ServiceListing, query repositories.ListingQuery) bool {
	for _, c := range query.Categories {
		if strings.EqualFold(l.Category, c) {
			return true
		}
	}
	for _, kw := range query.Keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(strings.ToLower(l.Category), kw) || strings.Contains(strings.ToLower(l.Title), kw) {
			return true
		}
	}
	return false
}

// fakeBookingRepo serves a fixed calendar keyed by provider ID
type fakeBookingRepo struct {
	bookings map[string][]*entities.Booking
	err      error
	errFor   map[string]error
}

func (f *fakeBookingRepo) ListByProviderAndDate(ctx context.Context, providerID, date string, statuses []entities.BookingStatus) ([]*entities.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err, ok := f.errFor[providerID]; ok {
		return nil, err
	}
	allowed := map[entities.BookingStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	result := []*entities.Booking{}
	for _, b := range f.bookings[providerID] {
		if b.ScheduledDate != date {
			continue
		}
		if len(statuses) > 0 && !allowed[b.Status] {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// fakeEventBus records published events with the channel they went out on
type fakeEventBus struct {
	mu       sync.Mutex
	events   []*entities.ListingEvent
	channels []string
}

func (f *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.ListingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error) {
	ch := make(chan *entities.ListingEvent)
	return ch, nil
}

func (f *fakeEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (f *fakeEventBus) Close() error { return nil }

var _ providers.EventBus = (*fakeEventBus)(nil)
var _ repositories.ProviderRepository = (*fakeProviderRepo)(nil)
var _ repositories.ListingRepository = (*fakeListingRepo)(nil)
var _ repositories.BookingRepository = (*fakeBookingRepo)(nil)

// testMatchingConfig returns the matching knobs used by the engine tests
func testMatchingConfig() *config.MatchingConfig {
	return &config.MatchingConfig{
		SurplusMultiplier:       3,
		DefaultDurationMinutes:  120,
		MinResultLimit:          10,
		AvailabilityConcurrency: 4,
		SynthesisEnabled:        true,
	}
}

func floatPtr(v float64) *float64 { return &v }

func approvedProvider(id, name string, skills, areas []string) *entities.Provider {
	return &entities.Provider{
		ID:            id,
		DisplayName:   name,
		Skills:        skills,
		ServiceAreas:  areas,
		ApprovalState: entities.ApprovalStateApproved,
		IsActive:      true,
	}
}
