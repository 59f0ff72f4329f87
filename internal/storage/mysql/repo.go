package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"staybook/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func marshalList(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.Description, h.Address, h.City, h.Email, h.Phone,
		valInt64(h.OwnerID), marshalList(h.Images),
	)
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, id)
}

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var ownerID sql.NullInt64
	var imagesJSON []byte
	if err := s.Scan(
		&h.ID, &h.Name, &h.Description, &h.Address, &h.City, &h.Email, &h.Phone,
		&ownerID, &imagesJSON, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}
	if ownerID.Valid {
		v := ownerID.Int64
		h.OwnerID = &v
	}
	_ = json.Unmarshal(imagesJSON, &h.Images)
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, listHotelsSQL)
}

func (r *Repo) SearchHotelsByCity(ctx context.Context, destination string) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, searchHotelsSQL, destination)
}

func (r *Repo) queryHotels(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ---- rooms ----

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.RoomType, rm.Description, rm.Capacity, rm.NightlyPrice,
		rm.TotalRooms, rm.RemainingRooms,
		marshalList(rm.Amenities), marshalList(rm.Images),
	)
	if err != nil {
		return domain.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Room{}, err
	}
	return r.GetRoom(ctx, id)
}

func scanRoom(s rowScanner) (domain.Room, error) {
	var rm domain.Room
	var desc sql.NullString
	var amenitiesJSON, imagesJSON []byte
	if err := s.Scan(
		&rm.ID, &rm.HotelID, &rm.RoomType, &desc, &rm.Capacity, &rm.NightlyPrice,
		&rm.TotalRooms, &rm.RemainingRooms, &amenitiesJSON, &imagesJSON,
		&rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return domain.Room{}, err
	}
	if desc.Valid {
		rm.Description = desc.String
	}
	_ = json.Unmarshal(amenitiesJSON, &rm.Amenities)
	_ = json.Unmarshal(imagesJSON, &rm.Images)
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) ListRoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// UpdateRemainingRooms is the single-row conditional write the
// availability engine builds on. The WHERE guard makes the update
// atomic with respect to concurrent reservations.
func (r *Repo) UpdateRemainingRooms(ctx context.Context, id int64, newValue, expectedOld int) error {
	res, err := r.db.ExecContext(ctx, casRemainingSQL, newValue, id, expectedOld)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Guard failed: tell not-found apart from a lost race.
	var one int
	switch err := r.db.QueryRowContext(ctx, roomExistsSQL, id).Scan(&one); err {
	case nil:
		return domain.ErrConflict
	case sql.ErrNoRows:
		return domain.ErrNotFound
	default:
		return err
	}
}

// ---- bookings ----

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.HotelID, b.RoomID, b.FirstName, b.LastName, b.Guests, b.Rooms,
		b.CheckIn, b.CheckOut, string(b.Status), b.ContactEmail, b.ContactPhone,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	return r.GetBooking(ctx, id)
}

func scanBooking(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var status string
	if err := s.Scan(
		&b.ID, &b.HotelID, &b.RoomID, &b.FirstName, &b.LastName, &b.Guests, &b.Rooms,
		&b.CheckIn, &b.CheckOut, &status, &b.ContactEmail, &b.ContactPhone,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(status), id)
	if err != nil {
		return domain.Booking{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Booking{}, err
	}
	if n == 0 {
		// MySQL reports zero rows for a same-value write too, so probe
		// before concluding the booking is gone.
		var one int
		if err := r.db.QueryRowContext(ctx, bookingExistsSQL, id).Scan(&one); err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrNotFound
		} else if err != nil {
			return domain.Booking{}, err
		}
	}
	return r.GetBooking(ctx, id)
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.BookingView, error) {
	query := listBookingsSQL
	var conds []string
	var args []any
	if f.HotelID != nil {
		conds = append(conds, "b.hotel_id = ?")
		args = append(args, *f.HotelID)
	}
	if f.Status != nil {
		conds = append(conds, "b.status = ?")
		args = append(args, string(*f.Status))
	}
	if len(conds) > 0 {
		query += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	query += "ORDER BY b.created_at DESC, b.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.BookingView
	for rows.Next() {
		var v domain.BookingView
		var status string
		if err := rows.Scan(
			&v.ID, &v.HotelID, &v.RoomID,
			&v.FirstName, &v.LastName, &v.Guests, &v.Rooms,
			&v.CheckIn, &v.CheckOut, &status,
			&v.ContactEmail, &v.ContactPhone,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Hotel.Name, &v.Hotel.City,
			&v.Room.RoomType, &v.Room.NightlyPrice,
		); err != nil {
			return nil, err
		}
		v.Status = domain.BookingStatus(status)
		v.Hotel.ID = v.HotelID
		v.Room.ID = v.RoomID
		out = append(out, v)
	}
	return out, rows.Err()
}
