package main

import (
	"fmt"
	"os"

	"github.com/de-tools/revenue-atlas/pkg/runtime/app"
	"github.com/de-tools/revenue-atlas/pkg/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var optionFile string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Revenue Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVar(&optionFile, "mycnf", "",
		"Path to a MySQL option file whose [client] section supplies DB settings")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	a, err := app.Bootstrap(cmd.Context(), optionFile, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to bootstrap: %w", err)
	}
	defer a.Close()

	logger := a.Logger
	ctx := logger.WithContext(cmd.Context())
	a.Probe(ctx)

	api := server.NewWebAPI(logger, server.Config{
		Addr:           ":" + a.Config.Port,
		AllowedOrigins: a.Config.AllowedOrigins,
		Dependencies: server.Dependencies{
			Revenue: a.Revenue,
			Export:  a.Export,
			DB:      a.Pinger,
		},
	})

	return api.Start()
}
