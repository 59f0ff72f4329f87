//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"staybook/internal/domain"
	mysqlrepo "staybook/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=staybook",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "staybook")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_BookingFlow(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Hotels
	hotel, err := repo.CreateHotel(ctx, domain.Hotel{
		Name:        "Hotel Lumière",
		Description: "Boutique hotel near the river",
		Address:     "12 Rue des Arts",
		City:        "Paris",
		Email:       "stay@lumiere.example",
		Phone:       "+33 1 44 55 66 77",
		Images:      []string{"uploads/front.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if hotel.ID == 0 {
		t.Fatal("expected generated hotel id")
	}
	if _, err := repo.CreateHotel(ctx, domain.Hotel{
		Name:        "Sparta Central Inn",
		Description: "Family-run inn",
		Address:     "3 Lykourgou Street",
		City:        "Sparta",
		Email:       "info@spartacentral.example",
		Phone:       "+30 27310 12345",
	}); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}

	got, err := repo.GetHotel(ctx, hotel.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.Name != "Hotel Lumière" || got.City != "Paris" || len(got.Images) != 1 {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if _, err := repo.GetHotel(ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	// City search: substring, case-insensitive, both directions
	hits, err := repo.SearchHotelsByCity(ctx, "PAR")
	if err != nil {
		t.Fatalf("SearchHotelsByCity: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("'PAR' must match Paris and Sparta, got %d: %+v", len(hits), hits)
	}
	if hits, _ := repo.SearchHotelsByCity(ctx, "xyz123"); len(hits) != 0 {
		t.Fatalf("want empty result for nonsense city, got %+v", hits)
	}

	// Rooms
	room, err := repo.CreateRoom(ctx, domain.Room{
		HotelID:        hotel.ID,
		RoomType:       "Classic",
		Description:    "Queen bed, street view",
		Capacity:       2,
		NightlyPrice:   140,
		TotalRooms:     3,
		RemainingRooms: 3,
		Amenities:      []string{"wifi"},
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.RemainingRooms != 3 || room.NightlyPrice != 140 {
		t.Fatalf("unexpected room: %+v", room)
	}

	// Guarded counter update: success, conflict, not-found
	if err := repo.UpdateRemainingRooms(ctx, room.ID, 2, 3); err != nil {
		t.Fatalf("UpdateRemainingRooms: %v", err)
	}
	if err := repo.UpdateRemainingRooms(ctx, room.ID, 1, 3); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale expected value: want ErrConflict, got %v", err)
	}
	if err := repo.UpdateRemainingRooms(ctx, 999999, 1, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown room: want ErrNotFound, got %v", err)
	}
	room, err = repo.GetRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if room.RemainingRooms != 2 {
		t.Fatalf("want remaining 2, got %d", room.RemainingRooms)
	}

	// Bookings
	booking, err := repo.CreateBooking(ctx, domain.Booking{
		HotelID:      hotel.ID,
		RoomID:       room.ID,
		FirstName:    "Ana",
		LastName:     "Costa",
		Guests:       2,
		Rooms:        1,
		CheckIn:      time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending,
		ContactEmail: "ana@example.com",
		ContactPhone: "35191234567",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.ID == 0 || booking.Status != domain.StatusPending {
		t.Fatalf("unexpected booking: %+v", booking)
	}
	if !booking.CheckOut.After(booking.CheckIn) {
		t.Fatalf("dates lost in roundtrip: %+v", booking)
	}

	updated, err := repo.UpdateBookingStatus(ctx, booking.ID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("want confirmed, got %s", updated.Status)
	}
	if _, err := repo.UpdateBookingStatus(ctx, 999999, domain.StatusConfirmed); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown booking: want ErrNotFound, got %v", err)
	}

	// Join view with filters
	views, err := repo.ListBookings(ctx, domain.BookingFilter{HotelID: &hotel.ID})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 booking for hotel, got %d", len(views))
	}
	v := views[0]
	if v.Hotel.Name != "Hotel Lumière" || v.Room.RoomType != "Classic" || v.Room.NightlyPrice != 140 {
		t.Fatalf("join did not resolve hotel/room: %+v", v)
	}

	cancelled := domain.StatusCancelled
	views, err = repo.ListBookings(ctx, domain.BookingFilter{Status: &cancelled})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("want no cancelled bookings, got %d", len(views))
	}
}
