package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^.+@.+\..+$`)
	phoneRe = regexp.MustCompile(`^\d{10,15}$`)
)

type CreateBookingInput struct {
	HotelID      int64
	RoomID       int64
	FirstName    string
	LastName     string
	Guests       int
	Rooms        int
	CheckIn      time.Time
	CheckOut     time.Time
	ContactEmail string
	ContactPhone string
}

func (in CreateBookingInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return domain.Invalid("first_name", "is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return domain.Invalid("last_name", "is required")
	}
	if in.Guests < 1 {
		return domain.Invalid("guests", "must be at least 1")
	}
	if in.Rooms < 1 {
		return domain.Invalid("rooms", "must be at least 1")
	}
	if in.CheckIn.IsZero() {
		return domain.Invalid("check_in", "is required")
	}
	if in.CheckOut.IsZero() {
		return domain.Invalid("check_out", "is required")
	}
	if !in.CheckOut.After(in.CheckIn) {
		return domain.Invalid("check_out", "must be after check-in")
	}
	if !emailRe.MatchString(in.ContactEmail) {
		return domain.Invalid("contact_email", "must be a valid email address")
	}
	if !phoneRe.MatchString(in.ContactPhone) {
		return domain.Invalid("contact_phone", "must be 10 to 15 digits")
	}
	return nil
}

// BookingService owns the booking lifecycle. Creation and reservation
// form one logical unit: a booking row only exists if the counter
// decrement succeeded, and a failed row insert rolls the counter back.
type BookingService struct {
	hotels   domain.HotelRepository
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	avail    *AvailabilityService
}

func NewBookingService(h domain.HotelRepository, r domain.RoomRepository, b domain.BookingRepository, a *AvailabilityService) *BookingService {
	return &BookingService{hotels: h, rooms: r, bookings: b, avail: a}
}

func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if err := in.validate(); err != nil {
		return domain.Booking{}, err
	}

	if _, err := s.hotels.GetHotel(ctx, in.HotelID); err != nil {
		return domain.Booking{}, fmt.Errorf("hotel %d: %w", in.HotelID, err)
	}
	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("room %d: %w", in.RoomID, err)
	}
	if room.HotelID != in.HotelID {
		return domain.Booking{}, fmt.Errorf("room %d does not belong to hotel %d: %w",
			in.RoomID, in.HotelID, domain.ErrNotFound)
	}

	if _, err := s.avail.Reserve(ctx, in.RoomID, in.Rooms); err != nil {
		observability.ObserveBooking("rejected")
		return domain.Booking{}, err
	}

	b := domain.Booking{
		HotelID:      in.HotelID,
		RoomID:       in.RoomID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Guests:       in.Guests,
		Rooms:        in.Rooms,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		Status:       domain.StatusPending,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
	}
	created, err := s.bookings.CreateBooking(ctx, b)
	if err != nil {
		// Compensate the reservation so the room is not stuck with a
		// phantom decrement.
		if _, rerr := s.avail.Release(ctx, in.RoomID, in.Rooms); rerr != nil {
			log.Error().
				Int64("room_id", in.RoomID).
				Int("rooms", in.Rooms).
				AnErr("rollback_err", rerr).
				Err(err).
				Msg("reservation rollback failed, room counter needs manual reconciliation")
			return domain.Booking{}, fmt.Errorf("create booking failed (%v), rollback failed: %w", err, rerr)
		}
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	observability.ObserveBooking("created")
	return created, nil
}

// UpdateStatus applies one transition of the lifecycle table.
// Transitions into cancelled release the booking's units back to the
// room before the status is persisted; a failed persist re-reserves
// them.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, next domain.BookingStatus) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	if !b.Status.CanTransitionTo(next) {
		return domain.Booking{}, fmt.Errorf("%s -> %s: %w", b.Status, next, domain.ErrInvalidTransition)
	}

	if next == domain.StatusCancelled {
		if _, err := s.avail.Release(ctx, b.RoomID, b.Rooms); err != nil {
			return domain.Booking{}, fmt.Errorf("release %d rooms for booking %d: %w", b.Rooms, bookingID, err)
		}
	}

	updated, err := s.bookings.UpdateBookingStatus(ctx, bookingID, next)
	if err != nil {
		if next == domain.StatusCancelled {
			if _, rerr := s.avail.Reserve(ctx, b.RoomID, b.Rooms); rerr != nil {
				log.Error().
					Int64("room_id", b.RoomID).
					Int("rooms", b.Rooms).
					AnErr("rereserve_err", rerr).
					Err(err).
					Msg("cancel rollback failed, room counter needs manual reconciliation")
			}
		}
		return domain.Booking{}, fmt.Errorf("update booking %d status: %w", bookingID, err)
	}

	observability.ObserveBooking(string(next))
	return updated, nil
}

func (s *BookingService) List(ctx context.Context, f domain.BookingFilter) ([]domain.BookingView, error) {
	return s.bookings.ListBookings(ctx, f)
}
