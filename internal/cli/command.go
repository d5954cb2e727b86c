package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	Name    string
	Summary string
	Usage   string

	// Flags returns a fresh flag set; nil means the command takes no flags.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	Run func(ctx context.Context, flags *pflag.FlagSet, args []string) error
}

// Execute dispatches args to the matching subcommand or runs c itself.
func (c *Command) Execute(ctx context.Context, out io.Writer, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(out)
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) == 0 || strings.HasPrefix(args[0], "-") {
			c.PrintHelp(out)
			return fmt.Errorf("command required")
		}
		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				return sub.Execute(ctx, out, args[1:])
			}
		}
		return fmt.Errorf("unknown command %q, run '%s --help' for usage", args[0], c.Name)
	}

	flagSet := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	if c.Flags != nil {
		flagSet = c.Flags()
	}
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			c.PrintHelp(out)
			return nil
		}
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return c.Run(ctx, flagSet, flagSet.Args())
}

func (c *Command) PrintHelp(out io.Writer) {
	if c.Usage != "" {
		fmt.Fprintf(out, "Usage: %s\n", c.Usage)
	}
	if c.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", c.Summary)
	}
	if len(c.Subcommands) > 0 {
		fmt.Fprintln(out, "\nCommands:")
		writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(writer, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		writer.Flush()
	}
	if c.Flags != nil {
		fmt.Fprintln(out, "\nFlags:")
		fmt.Fprint(out, c.Flags().FlagUsages())
	}
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
