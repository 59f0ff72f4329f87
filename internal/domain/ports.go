package domain

import "context"

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	SearchHotelsByCity(ctx context.Context, destination string) ([]Hotel, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRoomsByHotel(ctx context.Context, hotelID int64) ([]Room, error)

	// UpdateRemainingRooms is an atomic conditional write: the row is
	// updated only if remaining_rooms still equals expectedOld.
	// Returns ErrConflict when the guard fails, ErrNotFound when the
	// room does not exist.
	UpdateRemainingRooms(ctx context.Context, id int64, newValue, expectedOld int) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status BookingStatus) (Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]BookingView, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
