package domain

type Flight struct {
	ID            string `json:"_id"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_id"`
	DepartureCity string `json:"departure_city"`
	ArrivalCity   string `json:"arrival_city"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
	BasePrice     Amount `json:"base_price"`
	CurrentPrice  Amount `json:"currentPrice"`
	SurgeApplied  bool   `json:"surgeApplied"`
	AttemptCount  int    `json:"attemptCount"`
}

type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortDefault, SortPriceLow, SortPriceHigh:
		return true
	default:
		return false
	}
}

// FlightFilter mirrors the query string accepted by GET /flights.
type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
	SortBy        SortOrder
}

// AttemptResult is returned by POST /flights/:id/attempt.
type AttemptResult struct {
	SurgeApplied bool   `json:"surgeApplied"`
	CurrentPrice Amount `json:"currentPrice"`
	BasePrice    Amount `json:"base_price"`
	AttemptCount int    `json:"attemptCount"`
}
