package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/api"
	"github.com/travigo/driverportal/pkg/portal"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if os.Getenv("DRIVERPORTAL_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("DRIVERPORTAL_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "driverportal",
		Description: "Driver lookup portal over the published roster, dispatch and schedule sheets",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			portal.RegisterCLI(),
			portal.RegisterFeedsCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
