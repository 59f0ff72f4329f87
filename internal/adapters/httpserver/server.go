package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Server struct {
	mux        *chi.Mux
	bookingLim *rate.Limiter
}

// New builds the router with the shared middleware stack. bookingRPS
// bounds how many bookings per second the process accepts; bursts up
// to the same size are allowed.
func New(bookingRPS int) *Server {
	if bookingRPS <= 0 {
		bookingRPS = 25
	}
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{
		mux:        m,
		bookingLim: rate.NewLimiter(rate.Limit(bookingRPS), bookingRPS),
	}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
