package fakebackend

import (
	"bytes"
	"fmt"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/phpdave11/gofpdf"
)

// RenderTicket lays out a one-page A4 e-ticket.
func RenderTicket(booking domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+booking.PNR, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLIGHTBOOK E-TICKET")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	rows := []string{
		"PNR            : " + booking.PNR,
		"Status         : " + string(booking.Status),
		"Passenger      : " + booking.PassengerName,
		fmt.Sprintf("Flight         : %s %s", booking.Flight.Airline, booking.Flight.FlightNumber),
		fmt.Sprintf("Route          : %s - %s", booking.Flight.DepartureCity, booking.Flight.ArrivalCity),
		fmt.Sprintf("Departure      : %s", booking.Flight.DepartureTime),
		fmt.Sprintf("Arrival        : %s", booking.Flight.ArrivalTime),
		fmt.Sprintf("Duration       : %s", booking.Flight.Duration),
		// Core fonts are Latin-1 only, so no rupee sign here.
		fmt.Sprintf("Amount Paid    : INR %.2f", float64(booking.FinalPrice)/100),
		"Booking Date   : " + booking.BookingDate.Format("02/01/2006 15:04 MST"),
	}
	for _, row := range rows {
		pdf.Cell(0, 7, row)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Please carry a valid photo ID to the airport.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
