// Package cli is the terminal front end: one sub-command per page of the
// booking app, all sharing one session.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/service/booking"
	"github.com/Domenick1991/flightbook/internal/service/flights"
)

type Session interface {
	Login(ctx context.Context, credentials domain.Credentials) (domain.User, error)
	Register(ctx context.Context, profile domain.RegisterInput) (domain.User, error)
	Logout(ctx context.Context) error
	Current() (domain.User, bool)
	IsAuthenticated() bool
}

type WalletRefresher interface {
	Refresh(ctx context.Context) (domain.Amount, error)
}

type Deps struct {
	Session  Session
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Wallet   WalletRefresher
	Logger   *slog.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type App struct {
	session  Session
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
	wallet   WalletRefresher
	logger   *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func New(deps Deps) *App {
	app := &App{
		session:  deps.Session,
		flights:  deps.Flights,
		bookings: deps.Bookings,
		wallet:   deps.Wallet,
		logger:   deps.Logger,
		in:       deps.In,
		out:      deps.Out,
		errOut:   deps.ErrOut,
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}
	if app.in == nil {
		app.in = os.Stdin
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.errOut == nil {
		app.errOut = os.Stderr
	}
	return app
}

func (a *App) Execute(ctx context.Context, args []string) error {
	return a.Root().Execute(ctx, a.out, args)
}

func (a *App) Root() *Command {
	return &Command{
		Name:    "flightbook",
		Usage:   "flightbook <command> [flags]",
		Summary: "Search flights, book seats and manage your tickets.",
		Subcommands: []*Command{
			a.registerCommand(),
			a.loginCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.walletCommand(),
			a.flightsCommand(),
			a.flightCommand(),
			a.bookCommand(),
			a.bookingsCommand(),
			a.bookingCommand(),
			a.ticketCommand(),
		},
	}
}

func (a *App) requireSession() (domain.User, error) {
	user, ok := a.session.Current()
	if !ok {
		return domain.User{}, failure("Please login first", domain.ErrNotAuthenticated)
	}
	return user, nil
}
