package app

import (
	"context"
	"fmt"
	"strings"

	"staybook/internal/domain"
)

type CreateHotelInput struct {
	Name        string
	Description string
	Address     string
	City        string
	Email       string
	Phone       string
	Images      []string
	OwnerID     *int64
}

func (in CreateHotelInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Invalid("description", "is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return domain.Invalid("address", "is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return domain.Invalid("city", "is required")
	}
	if !emailRe.MatchString(in.Email) {
		return domain.Invalid("email", "must be a valid email address")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return domain.Invalid("phone", "is required")
	}
	return nil
}

type AddRoomInput struct {
	RoomType     string
	Description  string
	Capacity     int
	NightlyPrice float64
	TotalRooms   int
	Amenities    []string
	Images       []string
}

func (in AddRoomInput) validate() error {
	if strings.TrimSpace(in.RoomType) == "" {
		return domain.Invalid("room_type", "is required")
	}
	if in.Capacity < 1 {
		return domain.Invalid("capacity", "must be at least 1")
	}
	if in.NightlyPrice <= 0 {
		return domain.Invalid("price", "must be positive")
	}
	if in.TotalRooms < 1 {
		return domain.Invalid("total_rooms", "must be at least 1")
	}
	return nil
}

// CatalogService is the owner-facing write side of the hotel/room
// catalogue. Writes evict the read-side cache entries they invalidate.
type CatalogService struct {
	hotels domain.HotelRepository
	rooms  domain.RoomRepository
	cache  domain.Cache
}

func NewCatalogService(h domain.HotelRepository, r domain.RoomRepository, c domain.Cache) *CatalogService {
	return &CatalogService{hotels: h, rooms: r, cache: c}
}

func (s *CatalogService) CreateHotel(ctx context.Context, in CreateHotelInput) (domain.Hotel, error) {
	if err := in.validate(); err != nil {
		return domain.Hotel{}, err
	}
	h := domain.Hotel{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		City:        in.City,
		Email:       in.Email,
		Phone:       in.Phone,
		Images:      in.Images,
		OwnerID:     in.OwnerID,
	}
	created, err := s.hotels.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, keyHotelList)
	}
	return created, nil
}

func (s *CatalogService) AddRoom(ctx context.Context, hotelID int64, in AddRoomInput) (domain.Room, error) {
	if err := in.validate(); err != nil {
		return domain.Room{}, err
	}
	if _, err := s.hotels.GetHotel(ctx, hotelID); err != nil {
		return domain.Room{}, fmt.Errorf("hotel %d: %w", hotelID, err)
	}
	r := domain.Room{
		HotelID:        hotelID,
		RoomType:       in.RoomType,
		Description:    in.Description,
		Capacity:       in.Capacity,
		NightlyPrice:   in.NightlyPrice,
		TotalRooms:     in.TotalRooms,
		RemainingRooms: in.TotalRooms,
		Amenities:      in.Amenities,
		Images:         in.Images,
	}
	created, err := s.rooms.CreateRoom(ctx, r)
	if err != nil {
		return domain.Room{}, fmt.Errorf("add room to hotel %d: %w", hotelID, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, keyRooms(hotelID))
	}
	return created, nil
}
