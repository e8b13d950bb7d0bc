// Command agriadminctl is the AgriBizBoost admin panel for the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agribizboost/agriadmin/internal/client"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns 0 on success, 1 when a page failed and 2 for bad usage.
func run(ctx context.Context, args []string, in io.Reader, out, errw io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(errw)
		return 2
	}
	cmd, ok := findCommand(args[0])
	if !ok {
		fmt.Fprintf(errw, "unknown command %q\n\n", args[0])
		usage(errw)
		return 2
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(errw)
	addGlobalFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(errw, "usage: agriadminctl %s\n", cmd.usage)
		return 2
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(errw, "config: %v\n", err)
		return 2
	}
	a, err := newApp(cfg, in, out, errw)
	if err != nil {
		fmt.Fprintf(errw, "startup: %v\n", err)
		return 1
	}
	defer a.close()

	if err := cmd.run(ctx, a, fs); err != nil {
		report(errw, cmd.name, err)
		return 1
	}
	return 0
}

// report prints a one-line notice and a hint for what to do next.
func report(w io.Writer, name string, err error) {
	switch {
	case errors.Is(err, errNotSignedIn):
		fmt.Fprintln(w, "Not signed in. Run `agriadminctl login --phone <number>` first.")
		return
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Cancelled.")
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	switch {
	case errors.Is(err, client.ErrNetwork):
		fmt.Fprintf(w, "Unable to connect to the server. Check your connection, then retry: agriadminctl %s\n", name)
	case client.StatusOf(err) == http.StatusUnauthorized:
		fmt.Fprintln(w, "Run `agriadminctl login` to sign in again.")
	case client.StatusOf(err) == http.StatusForbidden:
		fmt.Fprintln(w, "Your account lacks the permission for this page.")
	default:
		fmt.Fprintf(w, "Retry: agriadminctl %s\n", name)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: agriadminctl <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags: --api-url --config --token-file --out-dir --timeout --export/-e --verbose/-v")
}
