package app_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"staybook/internal/domain"
)

// fakeStore implements the hotel, room and booking repositories over
// maps. UpdateRemainingRooms has real compare-and-set semantics under
// a mutex so concurrency tests exercise the same races the MySQL
// guarded update would.
type fakeStore struct {
	mu       sync.Mutex
	hotels   map[int64]domain.Hotel
	rooms    map[int64]domain.Room
	bookings map[int64]domain.Booking
	nextID   int64

	// error injection
	failCreateBooking error
	failStatusUpdate  error
	failIncrement     error // fails counter increases (release path) only
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hotels:   map[int64]domain.Hotel{},
		rooms:    map[int64]domain.Room{},
		bookings: map[int64]domain.Booking{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addHotel(h domain.Hotel) domain.Hotel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h.ID == 0 {
		h.ID = f.id()
	}
	f.hotels[h.ID] = h
	return h
}

func (f *fakeStore) addRoom(r domain.Room) domain.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.id()
	}
	f.rooms[r.ID] = r
	return r
}

func (f *fakeStore) remaining(roomID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[roomID].RemainingRooms
}

// ---- HotelRepository ----

func (f *fakeStore) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	return f.addHotel(h), nil
}

func (f *fakeStore) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SearchHotelsByCity(ctx context.Context, destination string) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.ToLower(destination)
	var out []domain.Hotel
	for _, h := range f.hotels {
		if strings.Contains(strings.ToLower(h.City), needle) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- RoomRepository ----

func (f *fakeStore) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	return f.addRoom(r), nil
}

func (f *fakeStore) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) ListRoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateRemainingRooms(ctx context.Context, id int64, newValue, expectedOld int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement != nil && newValue > expectedOld {
		return f.failIncrement
	}
	r, ok := f.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.RemainingRooms != expectedOld {
		return domain.ErrConflict
	}
	r.RemainingRooms = newValue
	f.rooms[id] = r
	return nil
}

// ---- BookingRepository ----

func (f *fakeStore) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if f.failCreateBooking != nil {
		return domain.Booking{}, f.failCreateBooking
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.id()
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	if f.failStatusUpdate != nil {
		return domain.Booking{}, f.failStatusUpdate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	b.Status = status
	f.bookings[id] = b
	return b, nil
}

func (f *fakeStore) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.BookingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BookingView
	for _, b := range f.bookings {
		if filter.HotelID != nil && b.HotelID != *filter.HotelID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		h := f.hotels[b.HotelID]
		r := f.rooms[b.RoomID]
		out = append(out, domain.BookingView{
			Booking: b,
			Hotel:   domain.HotelSummary{ID: h.ID, Name: h.Name, City: h.City},
			Room:    domain.RoomSummary{ID: r.ID, RoomType: r.RoomType, NightlyPrice: r.NightlyPrice},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- Cache ----

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Hotel:
		*d = v.(domain.Hotel)
	case *[]domain.Hotel:
		*d = v.([]domain.Hotel)
	case *[]domain.Room:
		*d = v.([]domain.Room)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}
