package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain"
)

const keyHotelList = "hotels:all"

func keyHotel(id int64) string      { return fmt.Sprintf("hotel:%d", id) }
func keyRooms(hotelID int64) string { return fmt.Sprintf("rooms:%d", hotelID) }
func keySearch(destination string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(destination))
}

// QueryService is the guest-facing read side. Lookups go through the
// cache first; entries expire by TTL and the write side evicts the
// keys it knows about.
type QueryService struct {
	hotels   domain.HotelRepository
	rooms    domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(h domain.HotelRepository, r domain.RoomRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, rooms: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := keyHotel(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, keyHotelList, &out); ok {
		return out, nil
	}
	hs, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	cp := copyHotels(hs)
	_ = s.cache.Set(ctx, keyHotelList, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

func (s *QueryService) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	key := keyRooms(hotelID)
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	if _, err := s.hotels.GetHotel(ctx, hotelID); err != nil {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, err)
	}
	rs, err := s.rooms.ListRoomsByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	cp := make([]domain.Room, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// SearchHotelsByCity matches destination as a case-insensitive
// substring of the city. No match is an empty slice, not an error.
func (s *QueryService) SearchHotelsByCity(ctx context.Context, destination string) ([]domain.Hotel, error) {
	if strings.TrimSpace(destination) == "" {
		return nil, domain.Invalid("city", "is required")
	}
	key := keySearch(destination)
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	hs, err := s.hotels.SearchHotelsByCity(ctx, destination)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array in the cache
	cp := copyHotels(hs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

func copyHotels(in []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(in))
	copy(out, in)
	return out
}
