package cli

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/view"
	"github.com/spf13/pflag"
)

func (a *App) flightsCommand() *Command {
	return &Command{
		Name:    "flights",
		Summary: "Search flights",
		Usage:   "flightbook flights [--from CITY] [--to CITY] [--sort price_low|price_high]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("flights", pflag.ContinueOnError)
			flags.String("from", "", "departure city")
			flags.String("to", "", "arrival city")
			flags.String("sort", "", "price_low or price_high")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
			from, _ := flags.GetString("from")
			to, _ := flags.GetString("to")
			sortBy, _ := flags.GetString("sort")

			result, err := a.flights.Search(ctx, domain.FlightFilter{
				DepartureCity: from,
				ArrivalCity:   to,
				SortBy:        domain.SortOrder(sortBy),
			})
			if err != nil {
				return failure("Failed to fetch flights", err)
			}
			fmt.Fprintln(a.out, view.FlightList(result))
			return nil
		},
	}
}

func (a *App) flightCommand() *Command {
	return &Command{
		Name:    "flight",
		Summary: "Show one flight with its current price",
		Usage:   "flightbook flight FLIGHT_ID",
		Run: func(ctx context.Context, _ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("flight: expected exactly one flight id")
			}
			flight, err := a.flights.Get(ctx, args[0])
			if err != nil {
				return failure("Failed to fetch flight", err)
			}
			fmt.Fprintln(a.out, view.FlightCard(*flight))
			return nil
		},
	}
}
