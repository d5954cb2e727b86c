package fakebackend

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (s *Server) createBooking(c *gin.Context) {
	var req domain.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	if req.FlightID == "" || req.PassengerName == "" {
		abort(c, http.StatusBadRequest, "Flight and passenger name are required")
		return
	}
	userID := c.GetString(userIDKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	flight, ok := s.flightLocked(req.FlightID)
	if !ok {
		abort(c, http.StatusNotFound, "Flight not found")
		return
	}
	acc := s.findAccountLocked(userID)
	if acc == nil {
		abort(c, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	if acc.user.WalletBalance < flight.CurrentPrice {
		abort(c, http.StatusBadRequest, "Insufficient wallet balance")
		return
	}
	acc.user.WalletBalance -= flight.CurrentPrice

	booking := domain.Booking{
		ID:            uuid.NewString(),
		PassengerName: req.PassengerName,
		PNR:           s.uniquePNRLocked(),
		Status:        domain.BookingStatusConfirmed,
		Flight:        flight,
		FinalPrice:    flight.CurrentPrice,
		BookingDate:   s.now().UTC(),
	}
	s.bookings = append(s.bookings, bookingRecord{userID: userID, booking: booking})

	c.JSON(http.StatusCreated, domain.BookingReceipt{Booking: booking, WalletBalance: acc.user.WalletBalance})
}

func (s *Server) listBookings(c *gin.Context) {
	userID := c.GetString(userIDKey)

	s.mu.Lock()
	result := make([]domain.Booking, 0)
	for i := len(s.bookings) - 1; i >= 0; i-- {
		if s.bookings[i].userID == userID {
			result = append(result, s.bookings[i].booking)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, result)
}

func (s *Server) getBooking(c *gin.Context) {
	booking, ok := s.ownBooking(c)
	if !ok {
		abort(c, http.StatusNotFound, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (s *Server) downloadTicket(c *gin.Context) {
	booking, ok := s.ownBooking(c)
	if !ok {
		abort(c, http.StatusNotFound, "Booking not found")
		return
	}
	pdf, err := RenderTicket(booking)
	if err != nil {
		s.logger.Error("render ticket", "pnr", booking.PNR, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to generate ticket")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ticket-`+booking.PNR+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) ownBooking(c *gin.Context) (domain.Booking, bool) {
	userID := c.GetString(userIDKey)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.bookings {
		if record.booking.ID == id && record.userID == userID {
			return record.booking, true
		}
	}
	return domain.Booking{}, false
}

func (s *Server) uniquePNRLocked() string {
	for {
		pnr := s.newPNR()
		taken := false
		for _, record := range s.bookings {
			if record.booking.PNR == pnr {
				taken = true
				break
			}
		}
		if !taken {
			return pnr
		}
	}
}

// randomPNR draws six characters from the random bits of a v4 UUID.
func randomPNR() string {
	id := uuid.New()
	pnr := make([]byte, 6)
	for i := range pnr {
		pnr[i] = pnrAlphabet[int(id[i])%len(pnrAlphabet)]
	}
	return string(pnr)
}
