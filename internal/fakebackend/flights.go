package fakebackend

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
)

func SeedFlights() []domain.Flight {
	return []domain.Flight{
		{ID: "fl-del-bom-1", Airline: "IndiGo", FlightNumber: "6E-201", DepartureCity: "Delhi", ArrivalCity: "Mumbai", DepartureTime: "06:00", ArrivalTime: "08:15", Duration: "2h 15m", BasePrice: domain.Rupees(2500)},
		{ID: "fl-del-bom-2", Airline: "Air India", FlightNumber: "AI-805", DepartureCity: "Delhi", ArrivalCity: "Mumbai", DepartureTime: "19:30", ArrivalTime: "21:50", Duration: "2h 20m", BasePrice: domain.Rupees(2900)},
		{ID: "fl-bom-blr-1", Airline: "Vistara", FlightNumber: "UK-851", DepartureCity: "Mumbai", ArrivalCity: "Bangalore", DepartureTime: "09:10", ArrivalTime: "10:50", Duration: "1h 40m", BasePrice: domain.Rupees(2100)},
		{ID: "fl-blr-del-1", Airline: "SpiceJet", FlightNumber: "SG-136", DepartureCity: "Bangalore", ArrivalCity: "Delhi", DepartureTime: "13:45", ArrivalTime: "16:30", Duration: "2h 45m", BasePrice: domain.Rupees(2750)},
		{ID: "fl-maa-ccu-1", Airline: "Akasa Air", FlightNumber: "QP-1402", DepartureCity: "Chennai", ArrivalCity: "Kolkata", DepartureTime: "07:25", ArrivalTime: "09:40", Duration: "2h 15m", BasePrice: domain.Rupees(2300)},
		{ID: "fl-hyd-goi-1", Airline: "IndiGo", FlightNumber: "6E-512", DepartureCity: "Hyderabad", ArrivalCity: "Goa", DepartureTime: "11:00", ArrivalTime: "12:20", Duration: "1h 20m", BasePrice: domain.Rupees(2050)},
	}
}

func (s *Server) listFlights(c *gin.Context) {
	departure := strings.ToLower(strings.TrimSpace(c.Query("departure_city")))
	arrival := strings.ToLower(strings.TrimSpace(c.Query("arrival_city")))

	s.mu.Lock()
	result := make([]domain.Flight, 0, len(s.flights))
	for _, flight := range s.flights {
		if departure != "" && !strings.Contains(strings.ToLower(flight.DepartureCity), departure) {
			continue
		}
		if arrival != "" && !strings.Contains(strings.ToLower(flight.ArrivalCity), arrival) {
			continue
		}
		result = append(result, s.priceLocked(flight))
	}
	s.mu.Unlock()

	switch domain.SortOrder(c.Query("sortBy")) {
	case domain.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].CurrentPrice < result[j].CurrentPrice })
	case domain.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].CurrentPrice > result[j].CurrentPrice })
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getFlight(c *gin.Context) {
	s.mu.Lock()
	flight, ok := s.flightLocked(c.Param("id"))
	s.mu.Unlock()
	if !ok {
		abort(c, http.StatusNotFound, "Flight not found")
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (s *Server) recordAttempt(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	if _, ok := s.flightLocked(id); !ok {
		s.mu.Unlock()
		abort(c, http.StatusNotFound, "Flight not found")
		return
	}
	s.attempts[id] = append(s.attempts[id], s.now())
	flight, _ := s.flightLocked(id)
	s.mu.Unlock()

	c.JSON(http.StatusOK, domain.AttemptResult{
		SurgeApplied: flight.SurgeApplied,
		CurrentPrice: flight.CurrentPrice,
		BasePrice:    flight.BasePrice,
		AttemptCount: flight.AttemptCount,
	})
}

// flightLocked returns the flight with its current price applied.
func (s *Server) flightLocked(id string) (domain.Flight, bool) {
	for _, flight := range s.flights {
		if flight.ID == id {
			return s.priceLocked(flight), true
		}
	}
	return domain.Flight{}, false
}

// priceLocked counts attempts inside the surge window and marks the flight
// up once the threshold is reached. Expired attempts are dropped.
func (s *Server) priceLocked(flight domain.Flight) domain.Flight {
	cutoff := s.now().Add(-s.cfg.SurgeWindow())
	recent := s.attempts[flight.ID][:0]
	for _, at := range s.attempts[flight.ID] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	s.attempts[flight.ID] = recent

	flight.AttemptCount = len(recent)
	flight.CurrentPrice = flight.BasePrice
	flight.SurgeApplied = false
	if s.cfg.SurgeThreshold > 0 && len(recent) >= s.cfg.SurgeThreshold {
		flight.SurgeApplied = true
		flight.CurrentPrice = domain.Amount(int64(flight.BasePrice) * (100 + s.cfg.SurgePercent) / 100)
	}
	return flight
}
