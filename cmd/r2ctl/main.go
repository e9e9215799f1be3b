package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

var version = "dev"

// exitInterrupted is the conventional status for a process stopped by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], &cli{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		factory: r2ctl.NewS3Client,
	})
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit status.
// Commands only return errors; rendering and the exit status are decided here.
func run(ctx context.Context, args []string, c *cli) int {
	root := c.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if c.session != nil {
		c.session.close()
	}
	if err == nil {
		return 0
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(c.stderr, "Interrupted.")
		return exitInterrupted
	}

	jsonOutput, _ := root.PersistentFlags().GetBool("json")
	if ferr := clientcli.NewFormatter(jsonOutput, false).FormatError(c.stderr, err); ferr != nil {
		_, _ = fmt.Fprintf(c.stderr, "Error: %v\n", err)
	}
	return 1
}
