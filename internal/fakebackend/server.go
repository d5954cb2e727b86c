// Package fakebackend is an in-memory stand-in for the flight booking API.
// It serves the same routes and JSON shapes as the real backend so the
// client can be developed and tested without it.
package fakebackend

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Domenick1991/flightbook/config"
	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type account struct {
	user         domain.User
	passwordHash []byte
}

type Server struct {
	cfg    config.BackendConfig
	logger *slog.Logger
	now    func() time.Time
	newPNR func() string

	mu       sync.Mutex
	accounts map[string]*account // by email
	flights  []domain.Flight
	bookings []bookingRecord
	attempts map[string][]time.Time // by flight id
}

type bookingRecord struct {
	userID  string
	booking domain.Booking
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFlights replaces the seeded timetable.
func WithFlights(flights []domain.Flight) Option {
	return func(s *Server) {
		s.flights = append([]domain.Flight(nil), flights...)
	}
}

func WithPNRGenerator(next func() string) Option {
	return func(s *Server) {
		s.newPNR = next
	}
}

func New(cfg config.BackendConfig, opts ...Option) *Server {
	server := &Server{
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
		newPNR:   randomPNR,
		accounts: make(map[string]*account),
		flights:  SeedFlights(),
		attempts: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

// Handler mounts every route under /api.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Authorization", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	api := router.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.GET("/flights", s.listFlights)
	api.GET("/flights/:id", s.getFlight)

	private := api.Group("", s.authenticate)
	private.GET("/auth/wallet", s.wallet)
	private.POST("/flights/:id/attempt", s.recordAttempt)
	private.POST("/bookings", s.createBooking)
	private.GET("/bookings", s.listBookings)
	private.GET("/bookings/:id", s.getBooking)
	private.GET("/bookings/:id/pdf", s.downloadTicket)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(started))
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
