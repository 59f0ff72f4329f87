package domain

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus maps a wire string onto the status enum.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return BookingStatus(s), nil
	}
	return "", Invalid("status", "must be one of pending, confirmed, cancelled")
}

// CanTransitionTo encodes the lifecycle table: pending -> confirmed,
// pending|confirmed -> cancelled. Cancelled is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

type Booking struct {
	ID           int64
	HotelID      int64
	RoomID       int64
	FirstName    string
	LastName     string
	Guests       int
	Rooms        int
	CheckIn      time.Time
	CheckOut     time.Time
	Status       BookingStatus
	ContactEmail string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingView is a booking with its hotel and room resolved for display.
type BookingView struct {
	Booking
	Hotel HotelSummary
	Room  RoomSummary
}

type BookingFilter struct {
	HotelID *int64
	Status  *BookingStatus
}
