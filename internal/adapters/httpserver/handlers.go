package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/domain"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	Catalog  *app.CatalogService
	Bookings *app.BookingService
	Avail    *app.AvailabilityService
	Q        *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/hotels", h.createHotel)
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/search", h.searchHotels)
	s.mux.Get("/v1/hotels/{hotelID}", h.getHotel)
	s.mux.Post("/v1/hotels/{hotelID}/rooms", h.addRoom)
	s.mux.Get("/v1/hotels/{hotelID}/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{roomID}/availability", h.checkAvailability)

	s.mux.With(Throttle(s.bookingLim)).
		Post("/v1/hotels/{hotelID}/rooms/{roomID}/bookings", h.createBooking)
	s.mux.Get("/v1/bookings", h.listBookings)
	s.mux.Patch("/v1/bookings/{bookingID}/status", h.updateBookingStatus)
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInsufficientAvailability):
		writeProblem(w, http.StatusConflict, "Insufficient Availability", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "Invalid Transition", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid(name, "must be a positive number")
	}
	return id, nil
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- catalogue ----

type createHotelReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Images      []string `json:"images"`
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	hotel, err := h.Catalog.CreateHotel(r.Context(), app.CreateHotelInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Email:       req.Email,
		Phone:       req.Phone,
		Images:      req.Images,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.ListHotels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.SearchHotelsByCity(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, err)
		return
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "hotelID")
	if err != nil {
		writeError(w, err)
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(hotel)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

type addRoomReq struct {
	RoomType     string   `json:"roomType"`
	Description  string   `json:"description"`
	Capacity     int      `json:"capacity"`
	NightlyPrice float64  `json:"price"`
	TotalRooms   int      `json:"totalRooms"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
}

func (h *Handlers) addRoom(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "hotelID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req addRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	room, err := h.Catalog.AddRoom(r.Context(), hotelID, app.AddRoomInput{
		RoomType:     req.RoomType,
		Description:  req.Description,
		Capacity:     req.Capacity,
		NightlyPrice: req.NightlyPrice,
		TotalRooms:   req.TotalRooms,
		Amenities:    req.Amenities,
		Images:       req.Images,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "hotelID")
	if err != nil {
		writeError(w, err)
		return
	}
	rooms, err := h.Q.ListRooms(r.Context(), hotelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ---- availability & bookings ----

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	requested := 1
	if s := q.Get("rooms"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Validation Failed", "rooms must be a number")
			return
		}
		requested = n
	}
	checkIn, err := time.Parse(dateLayout, q.Get("check_in"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", "check_in must be a YYYY-MM-DD date")
		return
	}
	checkOut, err := time.Parse(dateLayout, q.Get("check_out"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", "check_out must be a YYYY-MM-DD date")
		return
	}

	av, err := h.Avail.Check(r.Context(), roomID, requested, checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Available bool `json:"available"`
		Remaining int  `json:"remaining"`
	}{av.Available, av.Remaining})
}

type createBookingReq struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Guests       int    `json:"guests"`
	Rooms        int    `json:"rooms"`
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "hotelID")
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := pathID(r, "roomID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	in := app.CreateBookingInput{
		HotelID:      hotelID,
		RoomID:       roomID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Guests:       req.Guests,
		Rooms:        req.Rooms,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}
	if req.CheckIn != "" {
		if in.CheckIn, err = time.Parse(dateLayout, req.CheckIn); err != nil {
			writeProblem(w, http.StatusBadRequest, "Validation Failed", "checkIn must be a YYYY-MM-DD date")
			return
		}
	}
	if req.CheckOut != "" {
		if in.CheckOut, err = time.Parse(dateLayout, req.CheckOut); err != nil {
			writeProblem(w, http.StatusBadRequest, "Validation Failed", "checkOut must be a YYYY-MM-DD date")
			return
		}
	}

	booking, err := h.Bookings.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	var f domain.BookingFilter
	q := r.URL.Query()
	if s := q.Get("hotel_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Validation Failed", "hotel_id must be a number")
			return
		}
		f.HotelID = &id
	}
	if s := q.Get("status"); s != "" {
		st, err := domain.ParseBookingStatus(s)
		if err != nil {
			writeError(w, err)
			return
		}
		f.Status = &st
	}

	views, err := h.Bookings.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []domain.BookingView{}
	}
	writeJSON(w, http.StatusOK, views)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handlers) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.Bookings.UpdateStatus(r.Context(), bookingID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
