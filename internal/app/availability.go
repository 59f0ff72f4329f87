package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

// casRetries bounds how often a guarded counter update is replayed
// after losing a race against another writer.
const casRetries = 5

// AvailabilityService owns the remaining-room counter. All mutations
// go through compare-and-set at the repository so two concurrent
// reservations can never both consume the same unit.
type AvailabilityService struct {
	rooms domain.RoomRepository
}

func NewAvailabilityService(r domain.RoomRepository) *AvailabilityService {
	return &AvailabilityService{rooms: r}
}

func (s *AvailabilityService) Check(ctx context.Context, roomID int64, requested int, checkIn, checkOut time.Time) (domain.Availability, error) {
	if requested < 1 {
		return domain.Availability{}, domain.Invalid("rooms", "must be at least 1")
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return domain.Availability{}, domain.Invalid("check_in", "check-in and check-out are required")
	}
	if !checkOut.After(checkIn) {
		return domain.Availability{}, domain.Invalid("check_out", "must be after check-in")
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{
		Available: room.RemainingRooms >= requested,
		Remaining: room.RemainingRooms,
	}, nil
}

// Reserve decrements the counter by requested if and only if enough
// units remain. Returns the room as it looks after the decrement.
func (s *AvailabilityService) Reserve(ctx context.Context, roomID int64, requested int) (domain.Room, error) {
	if requested < 1 {
		return domain.Room{}, domain.Invalid("rooms", "must be at least 1")
	}
	var lastErr error
	for i := 0; i < casRetries; i++ {
		room, err := s.rooms.GetRoom(ctx, roomID)
		if err != nil {
			return domain.Room{}, err
		}
		if room.RemainingRooms < requested {
			return domain.Room{}, fmt.Errorf("room %d has %d left, want %d: %w",
				roomID, room.RemainingRooms, requested, domain.ErrInsufficientAvailability)
		}
		err = s.rooms.UpdateRemainingRooms(ctx, roomID, room.RemainingRooms-requested, room.RemainingRooms)
		if err == nil {
			room.RemainingRooms -= requested
			return room, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Room{}, err
		}
		observability.ObserveReservationConflict("reserve")
		lastErr = err
	}
	return domain.Room{}, fmt.Errorf("reserve room %d: retries exhausted: %w", roomID, lastErr)
}

// Release gives units back after a cancellation. The counter is capped
// at TotalRooms; releasing more than was ever taken is clamped, never
// an error.
func (s *AvailabilityService) Release(ctx context.Context, roomID int64, count int) (domain.Room, error) {
	if count < 1 {
		return domain.Room{}, domain.Invalid("rooms", "must be at least 1")
	}
	var lastErr error
	for i := 0; i < casRetries; i++ {
		room, err := s.rooms.GetRoom(ctx, roomID)
		if err != nil {
			return domain.Room{}, err
		}
		target := room.RemainingRooms + count
		if target > room.TotalRooms {
			target = room.TotalRooms
		}
		if target == room.RemainingRooms {
			return room, nil
		}
		err = s.rooms.UpdateRemainingRooms(ctx, roomID, target, room.RemainingRooms)
		if err == nil {
			room.RemainingRooms = target
			return room, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Room{}, err
		}
		observability.ObserveReservationConflict("release")
		lastErr = err
	}
	return domain.Room{}, fmt.Errorf("release room %d: retries exhausted: %w", roomID, lastErr)
}
