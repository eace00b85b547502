package entities

import (
	"strings"
	"time"
)

// ApprovalState represents the vetting state of a provider account
type ApprovalState string

const (
	ApprovalStatePending  ApprovalState = "pending"
	ApprovalStateApproved ApprovalState = "approved"
	ApprovalStateRejected ApprovalState = "rejected"
)

// AreaCitywide is the service-area sentinel meaning the provider covers
// the whole city rather than a named neighbourhood.
const AreaCitywide = "citywide"

// Provider represents a service provider in the marketplace
type Provider struct {
	ID            string        `json:"id" db:"id"`
	DisplayName   string        `json:"display_name" db:"display_name"`
	Email         string        `json:"email" db:"email"`
	PhoneNumber   string        `json:"phone_number" db:"phone_number"`
	Bio           string        `json:"bio,omitempty" db:"bio"`
	Skills        []string      `json:"skills" db:"-"`
	ServiceAreas  []string      `json:"service_areas" db:"-"`
	Rating        *float64      `json:"rating,omitempty" db:"rating"`
	ReviewCount   int           `json:"review_count" db:"review_count"`
	CompletedJobs int           `json:"completed_jobs" db:"completed_jobs"`
	HourlyRate    *float64      `json:"hourly_rate,omitempty" db:"hourly_rate"`
	ApprovalState ApprovalState `json:"approval_state" db:"approval_state"`
	IsActive      bool          `json:"is_active" db:"is_active"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// ProviderView wraps a Provider and applies the default policy for
// optional profile fields. Every locator tier and the scorer reads
// profile data through this view so defaults are applied in one place.
type ProviderView struct {
	provider *Provider
}

const (
	defaultRating = 4.0
)

// NewProviderView creates a view over a provider profile
func NewProviderView(provider *Provider) ProviderView {
	return ProviderView{provider: provider}
}

// Provider returns the underlying profile
func (v ProviderView) Provider() *Provider {
	return v.provider
}

// Rating returns the provider rating, defaulting to 4.0 when unset,
// clamped to [0, 5]
func (v ProviderView) Rating() float64 {
	if v.provider == nil || v.provider.Rating == nil {
		return defaultRating
	}
	r := *v.provider.Rating
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// ReviewCount returns the review count, never negative
func (v ProviderView) ReviewCount() int {
	if v.provider == nil || v.provider.ReviewCount < 0 {
		return 0
	}
	return v.provider.ReviewCount
}

// CompletedJobs returns the completed job count, never negative
func (v ProviderView) CompletedJobs() int {
	if v.provider == nil || v.provider.CompletedJobs < 0 {
		return 0
	}
	return v.provider.CompletedJobs
}

// HourlyRate returns the hourly rate and whether one is set
func (v ProviderView) HourlyRate() (float64, bool) {
	if v.provider == nil || v.provider.HourlyRate == nil {
		return 0, false
	}
	return *v.provider.HourlyRate, true
}

// ServesEverywhere reports whether the provider has no declared service
// areas, which the matching rules treat as covering every area
func (v ProviderView) ServesEverywhere() bool {
	return v.provider == nil || len(v.provider.ServiceAreas) == 0
}

// ServesArea reports whether the provider covers the given area, either
// by an exact (case-insensitive) area match, the citywide sentinel, or
// by declaring no areas at all
func (v ProviderView) ServesArea(area string) bool {
	if v.ServesEverywhere() {
		return true
	}
	for _, a := range v.provider.ServiceAreas {
		if strings.EqualFold(a, area) || strings.EqualFold(a, AreaCitywide) {
			return true
		}
	}
	return false
}

// CoversCitywide reports whether the provider declares the citywide
// sentinel area
func (v ProviderView) CoversCitywide() bool {
	if v.provider == nil {
		return false
	}
	for _, a := range v.provider.ServiceAreas {
		if strings.EqualFold(a, AreaCitywide) {
			return true
		}
	}
	return false
}

// HasExactArea reports whether the provider declares the given area by
// name (the citywide sentinel does not count)
func (v ProviderView) HasExactArea(area string) bool {
	if v.provider == nil {
		return false
	}
	for _, a := range v.provider.ServiceAreas {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}
