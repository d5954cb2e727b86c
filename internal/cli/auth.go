package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/view"
	"github.com/spf13/pflag"
)

func (a *App) registerCommand() *Command {
	return &Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Usage:   "flightbook register --name NAME --email EMAIL [--password-file PATH]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flags.String("name", "", "full name")
			flags.String("email", "", "email address")
			flags.String("password-file", "", "read the password from this file instead of prompting")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
			name, _ := flags.GetString("name")
			email, _ := flags.GetString("email")
			passwordFile, _ := flags.GetString("password-file")
			if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
				return fmt.Errorf("register: --name and --email are required")
			}

			password, err := a.readPassword(passwordFile)
			if err != nil {
				return err
			}
			user, err := a.session.Register(ctx, domain.RegisterInput{Name: name, Email: email, Password: password})
			if err != nil {
				return failure("Registration failed", err)
			}
			fmt.Fprintln(a.out, "Registration successful!")
			fmt.Fprintln(a.out, view.Header(user, true))
			return nil
		},
	}
}

func (a *App) loginCommand() *Command {
	return &Command{
		Name:    "login",
		Summary: "Sign in and remember the session",
		Usage:   "flightbook login --email EMAIL [--password-file PATH]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flags.String("email", "", "email address")
			flags.String("password-file", "", "read the password from this file instead of prompting")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
			email, _ := flags.GetString("email")
			passwordFile, _ := flags.GetString("password-file")
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("login: --email is required")
			}

			password, err := a.readPassword(passwordFile)
			if err != nil {
				return err
			}
			user, err := a.session.Login(ctx, domain.Credentials{Email: email, Password: password})
			if err != nil {
				return failure("Login failed", err)
			}
			fmt.Fprintln(a.out, "Login successful!")
			fmt.Fprintln(a.out, view.Header(user, true))
			return nil
		},
	}
}

func (a *App) logoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Forget the stored session",
		Usage:   "flightbook logout",
		Run: func(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
			if err := a.session.Logout(ctx); err != nil {
				return failure("Logout incomplete", err)
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the signed-in user",
		Usage:   "flightbook whoami",
		Run: func(context.Context, *pflag.FlagSet, []string) error {
			user, ok := a.session.Current()
			fmt.Fprintln(a.out, view.Header(user, ok))
			if !ok {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			if user.Email != "" {
				fmt.Fprintln(a.out, user.Email)
			}
			return nil
		},
	}
}

func (a *App) walletCommand() *Command {
	return &Command{
		Name:    "wallet",
		Summary: "Show the wallet balance",
		Usage:   "flightbook wallet [--offline]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("wallet", pflag.ContinueOnError)
			flags.Bool("offline", false, "show the stored balance without asking the backend")
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
			user, err := a.requireSession()
			if err != nil {
				return err
			}
			balance := user.WalletBalance
			if offline, _ := flags.GetBool("offline"); !offline {
				if balance, err = a.wallet.Refresh(ctx); err != nil {
					return failure("Failed to fetch wallet", err)
				}
			}
			fmt.Fprintln(a.out, view.WalletBadge(balance))
			return nil
		},
	}
}
