package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/confirmvotes/internal/cli"
	"github.com/rshade/confirmvotes/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	err := root.ExecuteContext(ctx)
	return cli.ExitCode(err)
}
