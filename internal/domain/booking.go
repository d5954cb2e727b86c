package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            string        `json:"_id"`
	PassengerName string        `json:"passenger_name"`
	PNR           string        `json:"pnr"`
	Status        BookingStatus `json:"status"`
	Flight        Flight        `json:"flight"`
	FinalPrice    Amount        `json:"final_price"`
	BookingDate   time.Time     `json:"booking_date"`
}

type CreateBookingInput struct {
	FlightID      string `json:"flightId"`
	PassengerName string `json:"passengerName"`
}

// BookingReceipt is the POST /bookings response: the created booking plus
// the wallet balance left after the debit.
type BookingReceipt struct {
	Booking
	WalletBalance Amount `json:"walletBalance"`
}
