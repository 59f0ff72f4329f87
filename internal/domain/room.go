package domain

import "time"

// Room is a bookable room category within a hotel. RemainingRooms is
// the only field mutated after creation; every write goes through a
// guarded conditional update so that 0 <= RemainingRooms <= TotalRooms
// holds at all times.
type Room struct {
	ID             int64
	HotelID        int64
	RoomType       string
	Description    string
	Capacity       int
	NightlyPrice   float64
	TotalRooms     int
	RemainingRooms int
	Amenities      []string
	Images         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RoomSummary struct {
	ID           int64
	RoomType     string
	NightlyPrice float64
}

// Availability is the answer to "can this room take N more units?".
type Availability struct {
	Available bool
	Remaining int
}
