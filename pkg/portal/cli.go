package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// ConfigFlag is shared by every command that needs the feed registry.
var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Value:   DefaultConfigPath,
	Usage:   "portal config file with the feed registry",
	EnvVars: []string{"DRIVERPORTAL_CONFIG"},
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up a driver the way the portal page does",
		Flags: []cli.Flag{
			ConfigFlag,
			&cli.StringFlag{
				Name:     "id",
				Usage:    "employee ID or the dashboard keyword",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			portal, err := Setup(c.Context, c.String("config"))
			if err != nil {
				return err
			}

			result, err := portal.Service.Lookup(c.Context, c.String("id"))
			if errors.Is(err, ErrDriverNotFound) {
				fmt.Println("Employee ID not found. Contact Dispatch.")
				return nil
			} else if err != nil {
				return err
			}

			if c.Bool("json") {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(encoded))
			} else {
				pretty.Println(result)
			}

			return nil
		},
	}
}

func RegisterFeedsCLI() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "Inspect the published spreadsheet feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "fetch every feed and report its row count",
				Flags: []cli.Flag{ConfigFlag},
				Action: func(c *cli.Context) error {
					portal, err := Setup(c.Context, c.String("config"))
					if err != nil {
						return err
					}

					return checkFeeds(c.Context, portal)
				},
			},
		},
	}
}

func checkFeeds(ctx context.Context, portal *Portal) error {
	if err := portal.Repository.Refresh(ctx); err != nil {
		return err
	}

	_, loadErr := portal.Repository.Load(ctx)

	for _, status := range portal.Repository.Status() {
		event := log.Info()
		if status.LastError != "" {
			event = log.Error().Str("error", status.LastError)
		}

		event.
			Str("feed", status.Identifier).
			Bool("optional", status.Optional).
			Int("rows", status.Rows).
			Msg("Feed checked")
	}

	return loadErr
}
