// Command uniq filters adjacent matching lines from a file or standard input.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// a second signal gets the default behavior and kills the process
	context.AfterFunc(ctx, stop)
	code := execute(ctx, newRootCmd(), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs cmd with args and maps the outcome to an exit code.
func execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		return 130
	}
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "uniq: %v\n", err)
	return 1
}
