package entities

import (
	"time"
)

// PriceType represents how a listing is priced
type PriceType string

const (
	PriceTypeFixed  PriceType = "fixed"
	PriceTypeHourly PriceType = "hourly"
	PriceTypeQuote  PriceType = "quote"
)

// ServiceListing represents a service offered by a provider
type ServiceListing struct {
	ID              string    `json:"id" db:"id"`
	ProviderID      string    `json:"provider_id" db:"provider_id"`
	Category        string    `json:"category" db:"category"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description,omitempty" db:"description"`
	Price           float64   `json:"price" db:"price"`
	PriceType       PriceType `json:"price_type" db:"price_type"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	AutoGenerated   bool      `json:"auto_generated" db:"auto_generated"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
