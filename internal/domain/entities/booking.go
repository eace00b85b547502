package entities

import (
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusDisputed   BookingStatus = "disputed"
)

// OccupyingStatuses are the booking statuses that reserve a provider's
// time and therefore count for conflict detection
var OccupyingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// Booking represents a scheduled job against a provider's calendar
type Booking struct {
	ID            string        `json:"id" db:"id"`
	ProviderID    string        `json:"provider_id" db:"provider_id"`
	ListingID     string        `json:"listing_id,omitempty" db:"listing_id"`
	ClientID      string        `json:"client_id,omitempty" db:"client_id"`
	ScheduledDate string        `json:"scheduled_date" db:"scheduled_date"` // YYYY-MM-DD
	StartTime     string        `json:"start_time" db:"start_time"`         // HH:MM local
	EndTime       string        `json:"end_time" db:"end_time"`             // HH:MM local
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// TimeWindow is a half-open [Start, End) interval in minutes from
// midnight local time
type TimeWindow struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open windows intersect
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && w.End > other.Start
}

// ParseClockTime converts an "HH:MM" string to minutes from midnight
func ParseClockTime(value string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(value, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("clock time %q out of range", value)
	}
	return hh*60 + mm, nil
}

// Window converts the booking's start/end times into a TimeWindow. An
// error means the record carries malformed time data; callers decide
// whether that is fatal.
func (b *Booking) Window() (TimeWindow, error) {
	start, err := ParseClockTime(b.StartTime)
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := ParseClockTime(b.EndTime)
	if err != nil {
		return TimeWindow{}, err
	}
	if end <= start {
		return TimeWindow{}, fmt.Errorf("booking window %s-%s is empty or inverted", b.StartTime, b.EndTime)
	}
	return TimeWindow{Start: start, End: end}, nil
}
