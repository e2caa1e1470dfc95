package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"terra-exec/internal/cmd"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...cmd.Option) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cmd.NewApp(stdin, stdout, stderr, opts...)
	err := app.Execute(ctx, args)

	logger := app.Logger()
	defer logger.Sync()

	if err != nil {
		cmd.ReportError(logger, err)
		return 1
	}
	return 0
}
