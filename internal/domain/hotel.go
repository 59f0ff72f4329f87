package domain

import "time"

type Hotel struct {
	ID          int64
	Name        string
	Description string
	Address     string
	City        string
	Email       string
	Phone       string
	OwnerID     *int64
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HotelSummary is the denormalized slice of a hotel attached to
// booking listings.
type HotelSummary struct {
	ID   int64
	Name string
	City string
}
