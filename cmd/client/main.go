package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gcstorage/internal/client/cli"
	"github.com/dmitrijs2005/gcstorage/internal/client/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	app, err := cli.NewApp(cfg, cli.StdStreams())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return app.Run(ctx)
}
