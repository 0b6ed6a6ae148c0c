package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/revenue-atlas/pkg/runtime/app"
	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal"
	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal/commands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Connect: connect,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context, optionFile string) (*commands.Backend, error) {
	a, err := app.Bootstrap(ctx, optionFile, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &commands.Backend{
		Revenue: a.Revenue,
		Export:  a.Export,
		Logger:  a.Logger,
		Close:   a.Close,
	}, nil
}
