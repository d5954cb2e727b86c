package flights

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbook/internal/domain"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	Get(ctx context.Context, id string) (*domain.Flight, error)
}

// FlightAPI is the part of the API client the flight views need.
type FlightAPI interface {
	ListFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetFlight(ctx context.Context, id string) (*domain.Flight, error)
}

type FlightService struct {
	api FlightAPI
}

func NewFlightService(api FlightAPI) *FlightService {
	return &FlightService{api: api}
}

func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if !filter.SortBy.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortOrder, filter.SortBy)
	}
	filter.DepartureCity = strings.TrimSpace(filter.DepartureCity)
	filter.ArrivalCity = strings.TrimSpace(filter.ArrivalCity)

	flights, err := s.api.ListFlights(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	return flights, nil
}

func (s *FlightService) Get(ctx context.Context, id string) (*domain.Flight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("flight id is required")
	}
	return s.api.GetFlight(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
