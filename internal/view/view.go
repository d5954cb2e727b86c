// Package view renders flights, bookings and the session header for the
// terminal. Renderers return strings and never write anywhere themselves.
package view

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// DateLayout is day/month/year, the order Indian users expect.
const DateLayout = "02/01/2006"

var (
	accent  = lipgloss.Color("33")
	success = lipgloss.Color("35")
	danger  = lipgloss.Color("160")
	faint   = lipgloss.Color("245")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(faint).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cityStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	faintStyle  = lipgloss.NewStyle().Foreground(faint)
	struckStyle = lipgloss.NewStyle().Foreground(faint).Strikethrough(true)
	priceStyle  = lipgloss.NewStyle().Bold(true).Foreground(success)
	surgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(danger)
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(success)
	brandStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

func FlightCard(flight domain.Flight) string {
	lines := []string{
		titleStyle.Render(flight.Airline),
		faintStyle.Render("Flight ID: " + flight.FlightNumber),
		fmt.Sprintf("%s %s  ── %s ──▶  %s %s",
			cityStyle.Render(flight.DepartureCity), faintStyle.Render(flight.DepartureTime),
			flight.Duration,
			cityStyle.Render(flight.ArrivalCity), faintStyle.Render(flight.ArrivalTime)),
		struckStyle.Render(flight.BasePrice.String()) + "  " + priceStyle.Render(flight.CurrentPrice.String()),
	}
	if flight.SurgeApplied {
		lines = append(lines, surgeStyle.Render("Surge Pricing (+10%)"))
	}
	if flight.AttemptCount > 0 {
		lines = append(lines, faintStyle.Render(Attempts(flight.AttemptCount)))
	}
	lines = append(lines, faintStyle.Render("id "+flight.ID))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// Attempts reads "1 recent attempt" or "3 recent attempts".
func Attempts(count int) string {
	if count == 1 {
		return "1 recent attempt"
	}
	return fmt.Sprintf("%d recent attempts", count)
}

func FlightList(flights []domain.Flight) string {
	if len(flights) == 0 {
		return faintStyle.Render("No flights found")
	}
	cards := make([]string, 0, len(flights))
	for _, flight := range flights {
		cards = append(cards, FlightCard(flight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func BookingCard(booking domain.Booking) string {
	lines := []string{
		statusStyle.Render(strings.ToUpper(string(booking.Status))) + "  PNR: " + titleStyle.Render(booking.PNR),
		titleStyle.Render(booking.Flight.Airline + " - " + booking.Flight.FlightNumber),
		"Passenger:    " + booking.PassengerName,
		"Route:        " + booking.Flight.DepartureCity + " → " + booking.Flight.ArrivalCity,
		"Departure:    " + booking.Flight.DepartureTime,
		"Arrival:      " + booking.Flight.ArrivalTime,
		"Amount Paid:  " + priceStyle.Render(booking.FinalPrice.String()),
		"Booking Date: " + BookingDate(booking),
		faintStyle.Render("id " + booking.ID),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func BookingDate(booking domain.Booking) string {
	if booking.BookingDate.IsZero() {
		return "-"
	}
	return booking.BookingDate.Local().Format(DateLayout)
}

func BookingList(bookings []domain.Booking) string {
	if len(bookings) == 0 {
		return "No bookings found\n" + faintStyle.Render("Start booking flights to see them here!")
	}
	cards := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		cards = append(cards, BookingCard(booking))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func WalletBadge(balance domain.Amount) string {
	return "Wallet: " + priceStyle.Render(balance.String())
}

// Header is the navigation bar. Anonymous users only see the brand.
func Header(user domain.User, authenticated bool) string {
	brand := brandStyle.Render("✈ FlightBook")
	if !authenticated {
		return brand
	}
	return strings.Join([]string{brand, WalletBadge(user.WalletBalance), "Hi, " + user.Name}, "   ")
}
