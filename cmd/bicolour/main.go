// Command bicolour edits, relaxes, converts and renders two-coloured graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/internal/cli"
	bcerrors "github.com/matzehuels/bicolour/pkg/errors"
)

// Exit codes beyond 0 and 1, following sysexits(3) where one fits.
const (
	exitDataErr     = 65  // malformed document
	exitNoInput     = 66  // input file missing
	exitIOErr       = 74  // store or file I/O failed
	exitInterrupted = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(exitInterrupted)
	}
	fmt.Fprintln(os.Stderr, bcerrors.UserMessage(err))
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch bcerrors.GetCode(err) {
	case bcerrors.ErrCodeMalformedInput:
		return exitDataErr
	case bcerrors.ErrCodeFileNotFound:
		return exitNoInput
	case bcerrors.ErrCodeIOFailure:
		return exitIOErr
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level must be set before the root's own pre-run loads the config,
	// so that config loading is logged at debug level too.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
