package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbook/internal/apiclient"
	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/view"
	"github.com/spf13/pflag"
)

func (a *App) bookCommand() *Command {
	return &Command{
		Name:    "book",
		Summary: "Book a seat on a flight, paid from the wallet",
		Usage:   "flightbook book FLIGHT_ID --passenger NAME",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("book", pflag.ContinueOnError)
			flags.String("passenger", "", "passenger full name")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("book: expected exactly one flight id")
			}
			passenger, _ := flags.GetString("passenger")
			if _, err := a.requireSession(); err != nil {
				return err
			}

			flight, err := a.flights.Get(ctx, args[0])
			if err != nil {
				return failure("Failed to fetch flight", err)
			}

			result, err := a.bookings.Confirm(ctx, *flight, passenger)
			if result != nil && result.Notice != "" {
				fmt.Fprintln(a.errOut, result.Notice)
			}
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrPassengerRequired):
					return failure("Please enter passenger name", nil)
				case errors.Is(err, domain.ErrInsufficientBalance):
					return failure("Insufficient wallet balance", nil)
				}
				return failure(apiclient.MessageOf(err, "Booking failed"), err)
			}

			fmt.Fprintln(a.out, "Booking successful!")
			fmt.Fprintln(a.out, view.BookingCard(result.Receipt.Booking))
			fmt.Fprintln(a.out, view.WalletBadge(result.Receipt.WalletBalance))

			if refreshed, err := a.flights.Get(ctx, flight.ID); err == nil {
				fmt.Fprintln(a.out, view.FlightCard(*refreshed))
			} else {
				a.logger.Debug("refresh flight after booking", "flight_id", flight.ID, "error", err)
			}
			return nil
		},
	}
}

func (a *App) bookingsCommand() *Command {
	return &Command{
		Name:    "bookings",
		Summary: "List my bookings",
		Usage:   "flightbook bookings",
		Run: func(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			history, err := a.bookings.History(ctx)
			if err != nil {
				return failure("Failed to fetch bookings", err)
			}
			fmt.Fprintln(a.out, "My Bookings")
			fmt.Fprintln(a.out, view.BookingList(history))
			return nil
		},
	}
}

func (a *App) bookingCommand() *Command {
	return &Command{
		Name:    "booking",
		Summary: "Show one booking",
		Usage:   "flightbook booking BOOKING_ID",
		Run: func(ctx context.Context, _ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("booking: expected exactly one booking id")
			}
			if _, err := a.requireSession(); err != nil {
				return err
			}
			found, err := a.bookings.Get(ctx, args[0])
			if err != nil {
				return failure("Failed to fetch booking", err)
			}
			fmt.Fprintln(a.out, view.BookingCard(*found))
			return nil
		},
	}
}

func (a *App) ticketCommand() *Command {
	return &Command{
		Name:    "ticket",
		Summary: "Download the PDF ticket for a booking",
		Usage:   "flightbook ticket BOOKING_ID [--dir DIR]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("ticket", pflag.ContinueOnError)
			flags.String("dir", ".", "directory to save the ticket in")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("ticket: expected exactly one booking id")
			}
			dir, _ := flags.GetString("dir")
			if _, err := a.requireSession(); err != nil {
				return err
			}

			found, err := a.bookings.Get(ctx, args[0])
			if err != nil {
				return failure("Failed to download ticket", err)
			}
			path, err := a.bookings.DownloadTicket(ctx, *found, dir)
			if err != nil {
				return failure("Failed to download ticket", err)
			}
			fmt.Fprintln(a.out, "Ticket downloaded successfully!")
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
}
